package ai

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictDecodesAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)

		var in PredictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, uint(7), in.CropID)
		assert.Equal(t, "Wheat", in.CropName)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prediction":"Predicted yield for Wheat: 2.5 tons/acre","confidence":0.92}`))
	}))
	defer srv.Close()

	client := NewHTTP(srv.URL, time.Second)
	out, err := client.Predict(context.Background(), PredictRequest{CropID: 7, CropName: "Wheat"})
	require.NoError(t, err)
	assert.Equal(t, "Predicted yield for Wheat: 2.5 tons/acre", out.Prediction)
	assert.InDelta(t, 0.92, out.Confidence, 1e-9)
	assert.NotEmpty(t, out.Raw)
}

func TestPredictConnectionRefused(t *testing.T) {
	// grab a free port and close it so nothing listens there
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	client := NewHTTP("http://"+addr, time.Second)
	_, err = client.Predict(context.Background(), PredictRequest{CropID: 1})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPredictNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTP(srv.URL, time.Second)
	_, err := client.Predict(context.Background(), PredictRequest{CropID: 1})
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestPredictTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewHTTP(srv.URL, 50*time.Millisecond)
	_, err := client.Predict(context.Background(), PredictRequest{CropID: 1})
	assert.ErrorIs(t, err, ErrUnavailable)
}
