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

package http_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	eh "github.com/google/bootarbiter/devices/emulator/http"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
)

func createTestEnv(wait time.Duration) (*eh.Server, *httptest.Server) {
	r := mux.NewRouter()
	s := eh.NewServer(wait)
	s.RegisterHandlers(r)
	return s, httptest.NewServer(r)
}

func put(t *testing.T, url string, body []byte) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url+eh.FlashPath, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestPutImage(t *testing.T) {
	for _, test := range []struct {
		desc     string
		body     []byte
		waiting  bool
		wantCode int
	}{
		{desc: "accepted", body: []byte{1, 2, 3}, waiting: true, wantCode: http.StatusAccepted},
		{desc: "device not waiting", body: []byte{1, 2, 3}, wantCode: http.StatusServiceUnavailable},
		{desc: "empty", waiting: true, wantCode: http.StatusBadRequest},
		{desc: "too large", body: make([]byte, eh.MaxImageSize+1), waiting: true, wantCode: http.StatusRequestEntityTooLarge},
	} {
		t.Run(test.desc, func(t *testing.T) {
			s, ts := createTestEnv(10 * time.Millisecond)
			defer ts.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			got := make(chan []byte, 1)
			if test.waiting {
				go func() {
					img, _ := s.Next(ctx)
					got <- img
				}()
				// Leave time for Next to start receiving.
				time.Sleep(5 * time.Millisecond)
			}

			if code := put(t, ts.URL, test.body); code != test.wantCode {
				t.Fatalf("PUT status = %d, want %d", code, test.wantCode)
			}
			if test.wantCode != http.StatusAccepted {
				return
			}
			if diff := cmp.Diff(test.body, <-got); diff != "" {
				t.Errorf("image diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPutImageWrongMethod(t *testing.T) {
	_, ts := createTestEnv(0)
	defer ts.Close()

	resp, err := http.Get(ts.URL + eh.FlashPath)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestNextCancelled(t *testing.T) {
	s := eh.NewServer(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Next() err = %v, want %v", err, context.Canceled)
	}
}

func TestUpload(t *testing.T) {
	s, ts := createTestEnv(10 * time.Millisecond)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	img := []byte("image")
	got := make(chan []byte, 1)
	go func() {
		// The first attempts find nobody waiting.
		time.Sleep(100 * time.Millisecond)
		b, _ := s.Next(ctx)
		got <- b
	}()

	if err := eh.Upload(ctx, ts.Client(), ts.URL, img, 5*time.Second); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if diff := cmp.Diff(img, <-got); diff != "" {
		t.Fatalf("image diff (-want +got):\n%s", diff)
	}
}

func TestUploadRejected(t *testing.T) {
	_, ts := createTestEnv(0)
	defer ts.Close()

	start := time.Now()
	if err := eh.Upload(context.Background(), ts.Client(), ts.URL, nil, time.Minute); err == nil {
		t.Fatal("Upload of empty image succeeded")
	}
	if d := time.Since(start); d > 10*time.Second {
		t.Fatalf("Upload retried a rejected image for %v", d)
	}
}

func TestUploadGivesUp(t *testing.T) {
	_, ts := createTestEnv(time.Millisecond)
	defer ts.Close()

	if err := eh.Upload(context.Background(), ts.Client(), ts.URL, []byte{1}, 200*time.Millisecond); err == nil {
		t.Fatal("Upload to a device which never waits succeeded")
	}
}
