package api

import (
	"context"
	"fmt"
	"time"

	"github.com/hazyhaar/ceramics-catalogue/pkg/aggregate"
	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
	"github.com/hazyhaar/ceramics-catalogue/pkg/dict"
	"github.com/hazyhaar/ceramics-catalogue/pkg/geo"
	"github.com/hazyhaar/ceramics-catalogue/pkg/kit"
)

// Shared request/response types used by both HTTP and MCP transports.

type collectionReq struct {
	ID string
}

type collectionInfo struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Schema      string     `json:"schema"`
	Loaded      bool       `json:"loaded"`
	Source      string     `json:"source,omitempty"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
	Rows        int        `json:"rows"`
	Items       int        `json:"items"`
	Processed   int        `json:"processed"`
	Unprocessed int        `json:"unprocessed"`
	Markers     int        `json:"markers"`
}

type collectionsResponse struct {
	Collections []collectionInfo `json:"collections"`
}

type aggregateResponse struct {
	Collection string `json:"collection"`
	aggregate.View
	Buckets []string `json:"buckets"`
}

type unprocessedResponse struct {
	Collection  string                  `json:"collection"`
	Unprocessed []aggregate.Unprocessed `json:"unprocessed"`
}

type groupResponse struct {
	Material string           `json:"material"`
	ID       string           `json:"id"`
	Image    string           `json:"image"`
	Count    int              `json:"count"`
	Items    []catalogue.Item `json:"items"`
}

type groupsResponse struct {
	Collection string          `json:"collection"`
	Groups     []groupResponse `json:"groups"`
}

type markersResponse struct {
	Collection string        `json:"collection"`
	Markers    []geo.Marker  `json:"markers"`
	Skipped    []geo.Skipped `json:"skipped"`
}

type translateReq struct {
	Term string
}

type translateResponse struct {
	Term       string `json:"term"`
	Normalized string `json:"normalized"`
	Material   string `json:"material"`
	Found      bool   `json:"found"`
}

type countryReq struct {
	Field string
}

type countryResponse struct {
	Field       string           `json:"field"`
	Code        string           `json:"code"`
	Found       bool             `json:"found"`
	Coordinates *geo.Coordinates `json:"coordinates,omitempty"`
}

type endpoints struct {
	collections kit.Endpoint
	aggregate   kit.Endpoint
	unprocessed kit.Endpoint
	groups      kit.Endpoint
	markers     kit.Endpoint
	translate   kit.Endpoint
	country     kit.Endpoint
}

func newEndpoints(store *Store, reg *dict.Registry) *endpoints {
	logger := store.logger
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.Logging(logger, name), kit.Tracing(name))(ep)
	}
	return &endpoints{
		collections: wrap("list_collections", listCollectionsEndpoint(store)),
		aggregate:   wrap("aggregate", aggregateEndpoint(store)),
		unprocessed: wrap("unprocessed", unprocessedEndpoint(store)),
		groups:      wrap("groups", groupsEndpoint(store)),
		markers:     wrap("markers", markersEndpoint(store)),
		translate:   wrap("translate_material", translateEndpoint(reg)),
		country:     wrap("resolve_country", countryEndpoint(store)),
	}
}

func listCollectionsEndpoint(store *Store) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		var out []collectionInfo
		for _, c := range store.Collections() {
			info := collectionInfo{ID: c.ID, Description: c.Description, Schema: c.Schema}
			if snap, err := store.Snapshot(c.ID); err == nil {
				loadedAt := snap.LoadedAt
				info.Loaded = true
				info.Source = snap.Source
				info.LoadedAt = &loadedAt
				info.Rows = snap.Rows
				info.Items = len(snap.Items)
				info.Processed = snap.Result.Processed
				info.Unprocessed = len(snap.Result.Unprocessed)
				info.Markers = len(snap.Markers)
			}
			out = append(out, info)
		}
		return collectionsResponse{Collections: out}, nil
	}
}

func aggregateEndpoint(store *Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*collectionReq)
		snap, err := store.Snapshot(req.ID)
		if err != nil {
			return nil, err
		}
		return aggregateResponse{
			Collection: req.ID,
			View:       snap.Result.View(),
			Buckets:    snap.Result.BucketOrder(),
		}, nil
	}
}

func unprocessedEndpoint(store *Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*collectionReq)
		snap, err := store.Snapshot(req.ID)
		if err != nil {
			return nil, err
		}
		list := snap.Result.Unprocessed
		if list == nil {
			list = []aggregate.Unprocessed{}
		}
		return unprocessedResponse{Collection: req.ID, Unprocessed: list}, nil
	}
}

func groupsEndpoint(store *Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*collectionReq)
		snap, err := store.Snapshot(req.ID)
		if err != nil {
			return nil, err
		}
		resp := groupsResponse{Collection: req.ID, Groups: make([]groupResponse, 0, len(snap.Groups))}
		for _, g := range snap.Groups {
			resp.Groups = append(resp.Groups, groupResponse{
				Material: g.Material,
				ID:       g.ID,
				Image:    store.env.MaterialImage(g.Material),
				Count:    len(g.Items),
				Items:    g.Items,
			})
		}
		return resp, nil
	}
}

func markersEndpoint(store *Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*collectionReq)
		snap, err := store.Snapshot(req.ID)
		if err != nil {
			return nil, err
		}
		resp := markersResponse{Collection: req.ID, Markers: snap.Markers, Skipped: snap.Skipped}
		if resp.Skipped == nil {
			resp.Skipped = []geo.Skipped{}
		}
		return resp, nil
	}
}

func translateEndpoint(reg *dict.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*translateReq)
		if req.Term == "" {
			return nil, fmt.Errorf("missing term")
		}
		res := reg.Translate(dict.MaterialsID, req.Term)
		return translateResponse{
			Term:       res.Term,
			Normalized: res.Normalized,
			Material:   res.Value,
			Found:      res.Found,
		}, nil
	}
}

func countryEndpoint(store *Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*countryReq)
		coords, code, ok := store.env.Geo().Resolve(req.Field)
		resp := countryResponse{Field: req.Field, Code: code, Found: ok}
		if ok {
			resp.Coordinates = &coords
		}
		return resp, nil
	}
}
