package dto

import "field-dispatch-service/internal/domain"

func FromTarget(t *domain.Target) TargetResponse {
	return TargetResponse{
		TargetID:                 t.TargetID,
		Location:                 FromCoordinates(t.Location),
		Address:                  t.Address,
		IsDangerous:              t.IsDangerous,
		IsBusiness:               t.IsBusiness,
		County:                   t.County,
		City:                     t.City,
		Priority:                 t.Priority,
		EstimatedDurationMinutes: t.EstimatedDurationMinutes,
	}
}

func FromAgent(a *domain.Agent) AgentResponse {
	res := AgentResponse{
		AgentID:            a.AgentID,
		Name:               a.Name,
		Location:           FromCoordinates(a.Location),
		LocationUpdatedAt:  a.LocationUpdatedAt,
		Status:             string(a.Status),
		MaxRadiusMiles:     a.MaxRadiusMiles,
		MaxHold:            a.MaxHold,
		MaxMonthlyDeclines: a.MaxMonthlyDeclines,
		CompletedCount:     a.CompletedCount,
		DeclinedCount:      a.DeclinedCount,
		MonthlyDeclines:    a.MonthlyDeclines,
		LastDeclineReset:   a.LastDeclineReset,
		SuccessRate:        a.SuccessRate,
		ActiveMissions:     a.ActiveMissions,
		HandlesDangerous:   a.HandlesDangerous,
		PropertyTypes:      make([]string, 0, len(a.PropertyTypes)),
		Language:           a.Language,
	}
	for _, pt := range a.PropertyTypes {
		res.PropertyTypes = append(res.PropertyTypes, string(pt))
	}
	if a.Territory != nil {
		res.Territory = &TerritoryResponse{Counties: a.Territory.Counties, Cities: a.Territory.Cities}
	}
	return res
}

func FromRoute(r *domain.Route) *RouteResponse {
	if r == nil {
		return nil
	}

	res := &RouteResponse{
		AgentID:            r.AgentID,
		Start:              FromCoordinates(r.Start),
		Points:             make([]RoutePointResponse, 0, len(r.Points)),
		TotalDistanceMiles: r.TotalDistanceMiles,
		TotalMinutes:       r.TotalMinutes,
		Optimized:          r.Optimized,
		Source:             string(r.Source),
	}
	for _, p := range r.Points {
		res.Points = append(res.Points, RoutePointResponse{
			TargetID:                 p.TargetID,
			Location:                 FromCoordinates(p.Location),
			Address:                  p.Address,
			EstimatedDurationMinutes: p.EstimatedDurationMinutes,
			OriginalIndex:            p.OriginalIndex,
			OptimizedIndex:           p.OptimizedIndex,
		})
	}
	return res
}

func FromRouteResult(r domain.RouteOptimizationResult) RouteResultResponse {
	return RouteResultResponse{
		AgentID:                r.AgentID,
		Success:                r.Success,
		Route:                  FromRoute(r.Route),
		OriginalDistanceMiles:  r.OriginalDistanceMiles,
		OptimizedDistanceMiles: r.OptimizedDistanceMiles,
		TimeSavedMinutes:       r.TimeSavedMinutes,
		Error:                  r.Error,
	}
}

func FromAssignmentResult(r domain.AssignmentResult) AssignmentResultResponse {
	res := AssignmentResultResponse{
		RunID:               r.RunID,
		Success:             r.Success,
		Assignments:         make([]AssignmentResponse, 0, len(r.Assignments)),
		UnassignedTargetIDs: r.UnassignedTargetIDs,
		RouteOptimized:      r.RouteOptimized,
		Error:               r.Error,
	}
	if res.UnassignedTargetIDs == nil {
		res.UnassignedTargetIDs = []string{}
	}
	for _, a := range r.Assignments {
		res.Assignments = append(res.Assignments, AssignmentResponse{
			AgentID:            a.AgentID,
			TargetIDs:          a.TargetIDs,
			TotalDistanceMiles: a.TotalDistanceMiles,
			PriorityScore:      a.PriorityScore,
			EstimatedMinutes:   a.EstimatedMinutes,
			Route:              FromRoute(a.Route),
		})
	}
	return res
}
