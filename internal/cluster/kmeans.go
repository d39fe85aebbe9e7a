// Package cluster partitions points in the plane with Lloyd's k-means.
//
// Initialisation is deterministic (first point, then repeatedly the point
// farthest from every chosen centroid) so identical input always yields
// identical labels.
package cluster

import (
	"errors"
	"fmt"
)

// DefaultMaxIterations bounds Lloyd iterations when callers pass 0
const DefaultMaxIterations = 300

// ErrNoPoints is returned when there is nothing to cluster
var ErrNoPoints = errors.New("no points to cluster")

// Point is a 2-D observation
type Point struct {
	X, Y float64
}

// Result holds cluster labels aligned with the input points
type Result struct {
	Labels     []int
	Centroids  []Point
	Sizes      []int
	Iterations int
}

// KMeans partitions points into k clusters. When the input has fewer than k
// distinct points the surplus clusters stay empty.
func KMeans(points []Point, k, maxIter int) (*Result, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	if k < 1 {
		return nil, fmt.Errorf("invalid cluster count %d", k)
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	centroids := initCentroids(points, k)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	iter := 0
	for iter < maxIter {
		iter++
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		centroids = recenter(points, labels, centroids)
	}

	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}

	return &Result{
		Labels:     labels,
		Centroids:  centroids,
		Sizes:      sizes,
		Iterations: iter,
	}, nil
}

// Partition splits values into k groups following the labels
func Partition[T any](values []T, labels []int, k int) [][]T {
	groups := make([][]T, k)
	for i, l := range labels {
		groups[l] = append(groups[l], values[i])
	}
	return groups
}

func initCentroids(points []Point, k int) []Point {
	centroids := make([]Point, 0, k)
	centroids = append(centroids, points[0])

	// Squared distance from each point to its closest chosen centroid
	closest := make([]float64, len(points))
	for i, p := range points {
		closest[i] = sqDist(p, points[0])
	}

	for len(centroids) < k {
		far := 0
		for i := range points {
			if closest[i] > closest[far] {
				far = i
			}
		}
		next := points[far]
		centroids = append(centroids, next)
		for i, p := range points {
			if d := sqDist(p, next); d < closest[i] {
				closest[i] = d
			}
		}
	}
	return centroids
}

// nearest returns the closest centroid, lowest index on ties
func nearest(p Point, centroids []Point) int {
	best := 0
	bestDist := sqDist(p, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := sqDist(p, centroids[c]); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// recenter moves each centroid to the mean of its members; empty clusters keep their centroid
func recenter(points []Point, labels []int, prev []Point) []Point {
	sums := make([]Point, len(prev))
	counts := make([]int, len(prev))
	for i, p := range points {
		l := labels[i]
		sums[l].X += p.X
		sums[l].Y += p.Y
		counts[l]++
	}

	next := make([]Point, len(prev))
	for c := range prev {
		if counts[c] == 0 {
			next[c] = prev[c]
			continue
		}
		n := float64(counts[c])
		next[c] = Point{X: sums[c].X / n, Y: sums[c].Y / n}
	}
	return next
}

func sqDist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
