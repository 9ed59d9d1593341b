package random

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLocalSource_Range(t *testing.T) {
	src := NewLocalSource()

	for i := 0; i < 1000; i++ {
		v := src.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("local source produced %v outside [0,1)", v)
		}
	}
}

// 固定序列的兜底源，用来验证切换行为
type markerSource struct {
	value float64
	calls int
}

func (m *markerSource) Float64() float64 {
	m.calls++
	return m.value
}

func TestPoolSource_DrainsPoolThenFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "0.111\n0.222\n0.333\n")
	}))
	defer server.Close()

	fallback := &markerSource{value: 0.999}
	src := NewPoolSource(server.URL, 3, fallback)

	if err := src.Prefetch(context.Background()); err != nil {
		t.Fatalf("prefetch failed: %v", err)
	}

	want := []float64{0.111, 0.222, 0.333}
	for i, w := range want {
		if got := src.Float64(); got != w {
			t.Fatalf("draw %d want %v, got %v", i, w, got)
		}
	}

	// 池子耗尽后无缝切到兜底源，序列不中断
	if got := src.Float64(); got != 0.999 {
		t.Fatalf("exhausted pool should fall back, got %v", got)
	}
	if fallback.calls == 0 {
		t.Fatalf("fallback source was never consulted")
	}
}

func TestPoolSource_PrefetchFailureIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fallback := &markerSource{value: 0.5}
	src := NewPoolSource(server.URL, 4, fallback)

	if err := src.Prefetch(context.Background()); err == nil {
		t.Fatalf("prefetch against a failing service should report the error")
	}

	// 预取失败后抽取仍然可用
	if got := src.Float64(); got != 0.5 {
		t.Fatalf("draws must keep working via fallback, got %v", got)
	}
}

func TestPoolSource_RejectsOutOfRangeValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "0.5\n1.5\n")
	}))
	defer server.Close()

	src := NewPoolSource(server.URL, 2, NewLocalSource())

	if err := src.Prefetch(context.Background()); err == nil {
		t.Fatalf("values outside [0,1) must be rejected")
	}

	if src.Remaining() != 0 {
		t.Fatalf("rejected batch must not enter the pool")
	}
}
