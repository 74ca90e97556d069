package dto

import "field-dispatch-service/internal/domain"

type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func (c Coordinates) Domain() domain.Coordinates {
	return domain.Coordinates{Lat: c.Lat, Lon: c.Lon}
}

func FromCoordinates(c domain.Coordinates) Coordinates {
	return Coordinates{Lat: c.Lat, Lon: c.Lon}
}
