// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package services

import (
	"context"
)

// FeedHub is satisfied by *websocket.Hub.
type FeedHub interface {
	Name() string
	RunWithContext(ctx context.Context) error
}

// FeedHubService supervises one live feed hub. When the tree stops, the hub
// closes its subscribers with a going-away frame.
type FeedHubService struct {
	hub FeedHub
}

// NewFeedHubService wraps hub.
func NewFeedHubService(hub FeedHub) *FeedHubService {
	return &FeedHubService{hub: hub}
}

// Serve implements suture.Service.
func (f *FeedHubService) Serve(ctx context.Context) error {
	return f.hub.RunWithContext(ctx)
}

func (f *FeedHubService) String() string {
	return "feed-hub-" + f.hub.Name()
}
