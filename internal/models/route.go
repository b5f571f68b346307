package models

// RouteStop is a job placed at a position in an optimized route ordering.
// Derived data only; a stop is never persisted.
type RouteStop struct {
	Job      Job     `json:"job"`
	Position int     `json:"position"` // 1-based position in the tour
	LegKm    float64 `json:"leg_km"`   // Distance from the previous stop (or start)
}

// RoutePlan is the result of a route optimization run: a greedy tour over
// the located jobs, plus any jobs that had no usable coordinate appended
// in their original relative order. Recomputed on demand, discarded on reset.
type RoutePlan struct {
	Start    LatLng      `json:"start"`
	Stops    []RouteStop `json:"stops"`
	Unrouted []Job       `json:"unrouted"`
	TotalKm  float64     `json:"total_km"`
}

// Jobs returns the planned stops followed by the unrouted jobs, i.e. the
// display order of the whole day sheet after optimization.
func (p *RoutePlan) Jobs() []Job {
	jobs := make([]Job, 0, len(p.Stops)+len(p.Unrouted))
	for _, stop := range p.Stops {
		jobs = append(jobs, stop.Job)
	}
	jobs = append(jobs, p.Unrouted...)
	return jobs
}
