// Copyright 2026 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package http lets an update agent on the host send images to an emulated
// device while it waits in maintenance mode.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

const (
	// FlashPath is where images are PUT.
	FlashPath = "/flash"
	// MaxImageSize bounds the accepted request body; it is larger than the
	// flash of any supported board.
	MaxImageSize = 1 << 20
	// DefaultHandoffWait is how long a request waits for the device to take
	// its image.
	DefaultHandoffWait = time.Second
)

// Server hands images received over HTTP to the device's update session.
// It implements emulator.UpdateSource.
type Server struct {
	images chan []byte
	wait   time.Duration
}

// NewServer creates a server whose requests wait up to wait for the device
// to take the image. Zero means DefaultHandoffWait.
func NewServer(wait time.Duration) *Server {
	if wait <= 0 {
		wait = DefaultHandoffWait
	}
	return &Server{
		images: make(chan []byte),
		wait:   wait,
	}
}

// Next blocks until an image is PUT or ctx is done.
func (s *Server) Next(ctx context.Context) ([]byte, error) {
	glog.Info("Waiting for an image over HTTP")
	select {
	case img := <-s.images:
		return img, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// putImage passes the body to a waiting update session.
func (s *Server) putImage(w http.ResponseWriter, r *http.Request) {
	img, err := io.ReadAll(io.LimitReader(r.Body, MaxImageSize+1))
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read body: %v", err), http.StatusBadRequest)
		return
	}
	switch {
	case len(img) == 0:
		http.Error(w, "empty image", http.StatusBadRequest)
		return
	case len(img) > MaxImageSize:
		http.Error(w, fmt.Sprintf("image larger than %d bytes", MaxImageSize), http.StatusRequestEntityTooLarge)
		return
	}

	t := time.NewTimer(s.wait)
	defer t.Stop()
	select {
	case s.images <- img:
		glog.V(1).Infof("Handed %d byte image to device", len(img))
		w.WriteHeader(http.StatusAccepted)
	case <-t.C:
		http.Error(w, "device is not waiting for an update", http.StatusServiceUnavailable)
	case <-r.Context().Done():
	}
}

// RegisterHandlers registers HTTP handlers for the update endpoints.
func (s *Server) RegisterHandlers(r *mux.Router) {
	r.HandleFunc(FlashPath, s.putImage).Methods(http.MethodPut)
}
