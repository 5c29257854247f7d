// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package wshub_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/momeni/car-market/pkg/adapter/realtime/wshub"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/notify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var _ notify.Publisher = (*wshub.Hub)(nil)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestPublishReachesClients(t *testing.T) {
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "clients"})
	h, err := wshub.New(wshub.WithClientsGauge(g))
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	a, b := dial(t, srv), dial(t, srv)
	defer a.Close()
	defer b.Close()
	require.Eventually(t, func() bool {
		return h.Len() == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(g))

	n := &model.Notification{
		ID:    uuid.New(),
		Kind:  model.NotifyDealerRegistered,
		Title: "New dealer",
	}
	h.Publish(n)
	for _, c := range []*websocket.Conn{a, b} {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(time.Second)))
		_, msg, err := c.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, n.ID.String(), gjson.GetBytes(msg, "id").String())
		assert.Equal(t, "dealer_registered", gjson.GetBytes(msg, "kind").String())
	}

	require.NoError(t, a.Close())
	assert.Eventually(t, func() bool {
		return h.Len() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCloseDisconnectsClients(t *testing.T) {
	h, err := wshub.New()
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := dial(t, srv)
	defer c.Close()
	require.Eventually(t, func() bool {
		return h.Len() == 1
	}, time.Second, 10*time.Millisecond)
	h.Close()
	assert.Equal(t, 0, h.Len())
	require.NoError(t, c.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = c.ReadMessage()
	assert.Error(t, err)
}

func TestInvalidBufferSize(t *testing.T) {
	_, err := wshub.New(wshub.WithBufferSize(0))
	assert.Error(t, err)
}
