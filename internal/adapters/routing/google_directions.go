package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/platform/obs"
	"field-dispatch-service/internal/ports"
)

// Google caps optimized waypoints per Directions request.
const googleMaxWaypoints = 25

// GoogleDirectionsProvider implements RouteProvider with the Google
// Directions API and its optimize:true waypoint reordering.
//
// Requests are round trips from the origin so every stop is reorderable;
// the closing leg back to the origin is dropped from the response.
// Outgoing calls are throttled by a token bucket. Retries are left to the
// caller. The provider is safe for concurrent use.
type GoogleDirectionsProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	limiter *rate.Limiter
}

type Option func(*GoogleDirectionsProvider)

func WithBaseURL(u string) Option {
	return func(g *GoogleDirectionsProvider) {
		if u != "" {
			g.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(g *GoogleDirectionsProvider) {
		if c != nil {
			g.session = c
		}
	}
}

// WithRateLimit allows perSecond requests with a burst of one. A
// non-positive value disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(g *GoogleDirectionsProvider) {
		if perSecond <= 0 {
			g.limiter = nil
			return
		}
		g.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

func NewGoogleDirectionsProvider(apiKey string, opts ...Option) (*GoogleDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("routing api key is empty")
	}

	g := &GoogleDirectionsProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com/maps/api",
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *GoogleDirectionsProvider) MaxWaypoints() int { return googleMaxWaypoints }

type directionsResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message"`
	Routes       []directionsRoute `json:"routes"`
}

type directionsRoute struct {
	Summary       string          `json:"summary"`
	WaypointOrder []int           `json:"waypoint_order"`
	Legs          []directionsLeg `json:"legs"`
}

type directionsLeg struct {
	Distance struct {
		Value int `json:"value"`
	} `json:"distance"`
	Duration struct {
		Value int `json:"value"`
	} `json:"duration"`
}

// OptimizeRoute asks Directions for the best order of req.Waypoints.
func (g *GoogleDirectionsProvider) OptimizeRoute(
	ctx context.Context,
	req ports.ProviderRouteRequest,
) (_ ports.ProviderRouteResponse, err error) {
	defer obs.Time(ctx, "google.OptimizeRoute")(&err)

	if len(req.Waypoints) == 0 {
		return ports.ProviderRouteResponse{}, errors.New("optimize route: no waypoints")
	}
	if len(req.Waypoints) > googleMaxWaypoints {
		return ports.ProviderRouteResponse{}, fmt.Errorf(
			"optimize route: %d waypoints exceeds limit %d",
			len(req.Waypoints), googleMaxWaypoints,
		)
	}

	endpoint := g.baseURL + "/directions/json?" + g.query(req).Encode()

	httpReq, err := g.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.ProviderRouteResponse{}, fmt.Errorf("optimize route: %w", err)
	}

	resp, err := g.do(httpReq)
	if err != nil {
		return ports.ProviderRouteResponse{}, fmt.Errorf("optimize route: %w", err)
	}
	defer resp.Body.Close()

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.ProviderRouteResponse{}, fmt.Errorf("optimize route: decode response: %w", err)
	}

	if body.Status != "OK" {
		return ports.ProviderRouteResponse{}, fmt.Errorf("optimize route: %w",
			&apiStatusError{Status: body.Status, Message: body.ErrorMessage})
	}
	if len(body.Routes) == 0 {
		return ports.ProviderRouteResponse{}, errors.New("optimize route: response has no routes")
	}

	return toProviderResponse(body.Routes[0], len(req.Waypoints))
}

func (g *GoogleDirectionsProvider) query(req ports.ProviderRouteRequest) url.Values {
	origin := formatLatLng(req.Origin)

	waypoints := make([]string, 0, 1+len(req.Waypoints))
	waypoints = append(waypoints, "optimize:true")
	for _, w := range req.Waypoints {
		waypoints = append(waypoints, formatLatLng(w))
	}

	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", origin)
	q.Set("waypoints", strings.Join(waypoints, "|"))
	if req.Mode != "" {
		q.Set("mode", req.Mode)
	}
	if len(req.Avoid) > 0 {
		q.Set("avoid", strings.Join(req.Avoid, "|"))
	}
	q.Set("key", g.apiKey)

	return q
}

// toProviderResponse keeps one leg per stop (origin→…→last stop) and
// drops the closing leg back to the origin.
func toProviderResponse(r directionsRoute, stops int) (ports.ProviderRouteResponse, error) {
	if len(r.WaypointOrder) != stops {
		return ports.ProviderRouteResponse{}, fmt.Errorf(
			"optimize route: waypoint_order has %d entries, want %d",
			len(r.WaypointOrder), stops,
		)
	}
	if len(r.Legs) < stops {
		return ports.ProviderRouteResponse{}, fmt.Errorf(
			"optimize route: response has %d legs, want at least %d",
			len(r.Legs), stops,
		)
	}

	out := ports.ProviderRouteResponse{
		WaypointOrder: append([]int(nil), r.WaypointOrder...),
		Legs:          make([]ports.ProviderLeg, 0, stops),
	}
	for _, leg := range r.Legs[:stops] {
		out.Legs = append(out.Legs, ports.ProviderLeg{
			DistanceMeters:  leg.Distance.Value,
			DurationSeconds: leg.Duration.Value,
		})
		out.DistanceMeters += leg.Distance.Value
		out.DurationSeconds += leg.Duration.Value
	}

	return out, nil
}

func formatLatLng(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lon, 'f', 6, 64)
}
