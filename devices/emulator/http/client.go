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

package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/golang/glog"
)

// Upload sends img to the emulated device served at deviceURL. It retries
// until the device is in maintenance mode and waiting for an update, or
// maxWait has passed.
func Upload(ctx context.Context, c *http.Client, deviceURL string, img []byte, maxWait time.Duration) error {
	u, err := url.JoinPath(deviceURL, FlashPath)
	if err != nil {
		return fmt.Errorf("invalid device URL %q: %w", deviceURL, err)
	}
	if c == nil {
		c = http.DefaultClient
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(img))
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.Do(req)
		if err != nil {
			// The emulator may not be listening yet.
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusAccepted:
			return nil
		case http.StatusServiceUnavailable:
			return fmt.Errorf("device busy: %s", bytes.TrimSpace(body))
		}
		return backoff.Permanent(fmt.Errorf("device rejected image: %s: %s", resp.Status, bytes.TrimSpace(body)))
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxElapsedTime = maxWait
	return backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), func(err error, d time.Duration) {
		glog.V(1).Infof("Upload to %s: %v, retrying in %v", u, err, d)
	})
}
