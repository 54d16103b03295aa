package renderer

import "time"

// RenderStats contains statistics about one rendered frame
type RenderStats struct {
	Pixels         int           // Pixels written
	Workers        int           // Row workers used
	PrimaryRays    int64         // Camera rays
	ShadowRays     int64         // Occlusion rays toward lights and along highlights
	ReflectionRays int64         // Mirror rays
	RefractionRays int64         // Transmitted rays
	Duration       time.Duration // Wall time of the pass
}

// TotalRays returns the number of rays of every kind
func (s RenderStats) TotalRays() int64 {
	return s.PrimaryRays + s.ShadowRays + s.ReflectionRays + s.RefractionRays
}

// merge adds another worker's counters into s
func (s *RenderStats) merge(other RenderStats) {
	s.Pixels += other.Pixels
	s.PrimaryRays += other.PrimaryRays
	s.ShadowRays += other.ShadowRays
	s.ReflectionRays += other.ReflectionRays
	s.RefractionRays += other.RefractionRays
}
