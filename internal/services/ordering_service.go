package services

import (
	"context"
	"log"
	"sort"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/mst"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/spatial"
)

// startVertexID marks the trip origin inside the ordering graph. It never
// appears in the output sequence.
const startVertexID = "__start__"

// OrderingService produces the canonical global visiting order: a minimum
// spanning tree over {start} ∪ POIs linearized by a nearest-first
// depth-first walk. The result is a tour heuristic, not an optimal tour; it
// is used as the tie-breaker everywhere downstream.
type OrderingService struct {
	routes RouteResolver
}

func NewOrderingService(routes RouteResolver) *OrderingService {
	return &OrderingService{routes: routes}
}

// GlobalOrder returns the canonical sequence and an id→position index.
func (s *OrderingService) GlobalOrder(ctx context.Context, pois []*db_models.POI, start spatial.Point) ([]*db_models.POI, map[string]int) {
	rank := make(map[string]int, len(pois))
	if len(pois) == 0 {
		return nil, rank
	}
	if len(pois) == 1 {
		rank[pois[0].ID.String()] = 0
		return []*db_models.POI{pois[0]}, rank
	}

	byID := make(map[string]*db_models.POI, len(pois))
	for _, poi := range pois {
		byID[poi.ID.String()] = poi
	}

	g, _ := core.NewGraph(core.WithWeighted())
	weights := make(map[[2]string]int64)
	addEdge := func(fromID string, from spatial.Point, toID string, to spatial.Point) {
		leg := s.routes.Resolve(ctx, from, to)
		meters := int64(leg.DistanceKm * 1000)
		if _, err := g.AddEdge(fromID, toID, float64(meters)); err != nil {
			log.Printf("ordering graph edge %s-%s: %v", fromID, toID, err)
			return
		}
		weights[[2]string{fromID, toID}] = meters
		weights[[2]string{toID, fromID}] = meters
	}

	root := ""
	var rootMeters int64
	for i, poi := range pois {
		id := poi.ID.String()
		addEdge(startVertexID, start, id, poi.Point())
		if m := weights[[2]string{startVertexID, id}]; root == "" || m < rootMeters {
			root, rootMeters = id, m
		}
		for j := i + 1; j < len(pois); j++ {
			addEdge(id, poi.Point(), pois[j].ID.String(), pois[j].Point())
		}
	}

	mstRes, err := mst.Prim(g, root)
	if err != nil {
		// Complete graphs cannot be disconnected; treat this as a data bug
		// and keep the input order rather than failing the plan.
		log.Printf("prim over poi graph: %v, keeping input order", err)
		sequence := append([]*db_models.POI(nil), pois...)
		for i, poi := range sequence {
			rank[poi.ID.String()] = i
		}
		return sequence, rank
	}

	// Linearize the tree nearest-first from the root.
	adjacency := make(map[string][]string)
	for _, e := range mstRes.Edges {
		adjacency[e.From] = append(adjacency[e.From], e.To)
		adjacency[e.To] = append(adjacency[e.To], e.From)
	}
	for node, neighbors := range adjacency {
		node := node
		sort.SliceStable(neighbors, func(i, j int) bool {
			wi := weights[[2]string{node, neighbors[i]}]
			wj := weights[[2]string{node, neighbors[j]}]
			if wi != wj {
				return wi < wj
			}
			return neighbors[i] < neighbors[j]
		})
	}

	sequence := make([]*db_models.POI, 0, len(pois))
	visited := make(map[string]bool, len(pois)+1)
	var walk func(id string)
	walk = func(id string) {
		visited[id] = true
		if poi, ok := byID[id]; ok {
			rank[id] = len(sequence)
			sequence = append(sequence, poi)
		}
		for _, next := range adjacency[id] {
			if !visited[next] {
				walk(next)
			}
		}
	}
	walk(root)

	// The start vertex sits inside the tree; any subtree hanging off it is
	// reached here if the root walk did not cover it.
	for _, poi := range pois {
		if id := poi.ID.String(); !visited[id] {
			walk(id)
		}
	}
	return sequence, rank
}
