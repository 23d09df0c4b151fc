// video_compositor_test.go - Tests and benchmarks for video compositor

package main

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// BenchmarkFrameClear_Loop benchmarks the old loop-based frame clear
func BenchmarkFrameClear_Loop(b *testing.B) {
	// 640x480x4 = 1,228,800 bytes
	frame := make([]byte, 640*480*4)
	// Pre-fill with some data
	for i := range frame {
		frame[i] = 0xFF
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for j := range frame {
			frame[j] = 0
		}
	}
}

// BenchmarkFrameClear_Copy benchmarks the optimized copy-based frame clear
func BenchmarkFrameClear_Copy(b *testing.B) {
	// 640x480x4 = 1,228,800 bytes
	frameSize := 640 * 480 * 4
	frame := make([]byte, frameSize)
	zeroFrame := make([]byte, frameSize)
	// Pre-fill with some data
	for i := range frame {
		frame[i] = 0xFF
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		copy(frame, zeroFrame)
	}
}

// mockScanlineSource implements both VideoSource and ScanlineAware for testing.
type mockScanlineSource struct {
	enabled   atomic.Bool
	layer     int
	w, h      int
	frame     []byte
	scanlines int // counts ProcessScanline calls per frame
}

func (m *mockScanlineSource) GetFrame() []byte          { return m.frame }
func (m *mockScanlineSource) IsEnabled() bool           { return m.enabled.Load() }
func (m *mockScanlineSource) GetLayer() int             { return m.layer }
func (m *mockScanlineSource) GetDimensions() (int, int) { return m.w, m.h }
func (m *mockScanlineSource) SignalVSync()              {}
func (m *mockScanlineSource) StartFrame()               { m.scanlines = 0 }
func (m *mockScanlineSource) ProcessScanline(y int)     { m.scanlines++ }
func (m *mockScanlineSource) FinishFrame() []byte       { return m.frame }

// TestCompositor_ScanlineAware_TwoSources verifies that the compositor takes
// the per-scanline path when every registered source implements ScanlineAware,
// simulating the ULA base layer plus a debugger overlay layer.
func TestCompositor_ScanlineAware_TwoSources(t *testing.T) {
	comp := NewVideoCompositor(nil)
	comp.SetDimensions(640, 480)

	ula := &mockScanlineSource{layer: 0, w: 640, h: 480, frame: make([]byte, 640*480*4)}
	ula.enabled.Store(true)
	overlay := &mockScanlineSource{layer: 10, w: 640, h: 480, frame: make([]byte, 640*480*4)}
	overlay.enabled.Store(true)

	comp.RegisterSource(ula)
	comp.RegisterSource(overlay)

	comp.composite()

	if ula.scanlines != 480 {
		t.Errorf("ula: expected 480 ProcessScanline calls, got %d (scanline path not used)", ula.scanlines)
	}
	if overlay.scanlines != 480 {
		t.Errorf("overlay: expected 480 ProcessScanline calls, got %d (scanline path not used)", overlay.scanlines)
	}
}

// TestCompositor_FullFrame_DisabledSourceSkipped verifies a disabled source
// contributes nothing and the fallback full-frame path is taken when a
// registered source doesn't implement ScanlineAware.
type mockFullFrameSource struct {
	enabled atomic.Bool
	layer   int
	w, h    int
	frame   []byte
}

func (m *mockFullFrameSource) GetFrame() []byte {
	if !m.enabled.Load() {
		return nil
	}
	return m.frame
}
func (m *mockFullFrameSource) IsEnabled() bool           { return m.enabled.Load() }
func (m *mockFullFrameSource) GetLayer() int             { return m.layer }
func (m *mockFullFrameSource) GetDimensions() (int, int) { return m.w, m.h }
func (m *mockFullFrameSource) SignalVSync()              {}

func TestCompositor_FullFrame_DisabledSourceSkipped(t *testing.T) {
	comp := NewVideoCompositor(nil)
	comp.SetDimensions(640, 480)

	src := &mockFullFrameSource{layer: 0, w: 640, h: 480, frame: make([]byte, 640*480*4)}
	// disabled by default
	comp.RegisterSource(src)

	comp.composite()

	for i, b := range comp.finalFrame {
		if b != 0 {
			t.Fatalf("expected final frame to stay cleared with a disabled source, byte %d = %d", i, b)
		}
	}
}

type mockVideoOutput struct {
	mu        sync.Mutex
	started   bool
	config    DisplayConfig
	setCalls  int
	updateErr error
	setErr    error
}

func newMockVideoOutput() *mockVideoOutput {
	return &mockVideoOutput{
		config: DisplayConfig{
			Width:       640,
			Height:      480,
			Scale:       1,
			PixelFormat: PixelFormatRGBA,
			RefreshRate: 60,
			VSync:       true,
		},
	}
}

func (m *mockVideoOutput) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	return nil
}

func (m *mockVideoOutput) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = false
	return nil
}

func (m *mockVideoOutput) Close() error { return m.Stop() }

func (m *mockVideoOutput) IsStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

func (m *mockVideoOutput) SetDisplayConfig(config DisplayConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	m.config = config
	return m.setErr
}

func (m *mockVideoOutput) GetDisplayConfig() DisplayConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

func (m *mockVideoOutput) UpdateFrame(buffer []byte) error { return m.updateErr }
func (m *mockVideoOutput) WaitForVSync() error             { return nil }
func (m *mockVideoOutput) GetFrameCount() uint64           { return 0 }
func (m *mockVideoOutput) GetRefreshRate() int             { return 60 }

func TestCompositor_SetDimensions_UpdatesFrameSize(t *testing.T) {
	comp := NewVideoCompositor(nil)
	comp.SetDimensions(800, 600)
	if comp.frameWidth != 800 || comp.frameHeight != 600 {
		t.Fatalf("expected 800x600, got %dx%d", comp.frameWidth, comp.frameHeight)
	}
	if len(comp.finalFrame) != 800*600*4 {
		t.Fatalf("expected finalFrame len %d, got %d", 800*600*4, len(comp.finalFrame))
	}
}

func TestCompositor_NotifyResolutionChange_AppliesOnComposite(t *testing.T) {
	out := newMockVideoOutput()
	comp := NewVideoCompositor(out)
	comp.NotifyResolutionChange(800, 600)
	if comp.frameWidth != 640 {
		t.Fatalf("expected width unchanged before composite, got %d", comp.frameWidth)
	}
	comp.composite()
	if comp.frameWidth != 800 || comp.frameHeight != 600 {
		t.Fatalf("expected 800x600, got %dx%d", comp.frameWidth, comp.frameHeight)
	}
	cfg := out.GetDisplayConfig()
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Fatalf("expected output config 800x600, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCompositor_NotifyResolutionChange_LastWriterWins(t *testing.T) {
	comp := NewVideoCompositor(newMockVideoOutput())
	comp.NotifyResolutionChange(800, 600)
	comp.NotifyResolutionChange(1024, 768)
	comp.composite()
	if comp.frameWidth != 1024 || comp.frameHeight != 768 {
		t.Fatalf("expected 1024x768, got %dx%d", comp.frameWidth, comp.frameHeight)
	}
}

func TestCompositor_LockResolution_IgnoresNotifications(t *testing.T) {
	comp := NewVideoCompositor(newMockVideoOutput())
	comp.LockResolution(320, 240)
	comp.NotifyResolutionChange(800, 600)
	comp.composite()
	if comp.frameWidth != 320 || comp.frameHeight != 240 {
		t.Fatalf("expected locked 320x240, got %dx%d", comp.frameWidth, comp.frameHeight)
	}
}

func TestCompositor_LockResolution_PropagatesConfig_Started(t *testing.T) {
	out := newMockVideoOutput()
	_ = out.Start()
	comp := NewVideoCompositor(out)
	comp.LockResolution(800, 600)
	cfg := out.GetDisplayConfig()
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Fatalf("expected output config 800x600, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCompositor_LockResolution_PropagatesConfig_PreStart(t *testing.T) {
	out := newMockVideoOutput()
	comp := NewVideoCompositor(out)
	comp.LockResolution(800, 600)
	cfg := out.GetDisplayConfig()
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Fatalf("expected output config 800x600, got %dx%d", cfg.Width, cfg.Height)
	}
	if comp.frameWidth != 800 || comp.frameHeight != 600 {
		t.Fatalf("expected compositor 800x600, got %dx%d", comp.frameWidth, comp.frameHeight)
	}
	_ = out.Start()
	comp.composite()
	if len(comp.finalFrame) != 800*600*4 {
		t.Fatalf("expected finalFrame len %d, got %d", 800*600*4, len(comp.finalFrame))
	}
}

func TestCompositor_ApplyResolution_NoDuplicateUpdate(t *testing.T) {
	out := newMockVideoOutput()
	comp := NewVideoCompositor(out)
	comp.NotifyResolutionChange(640, 480)
	comp.composite()
	if out.setCalls != 0 {
		t.Fatalf("expected no SetDisplayConfig calls, got %d", out.setCalls)
	}
}

func TestCompositor_ApplyResolution_OutputError_ContinuesGracefully(t *testing.T) {
	out := newMockVideoOutput()
	out.setErr = errors.New("set config failed")
	comp := NewVideoCompositor(out)
	comp.NotifyResolutionChange(800, 600)
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("composite panicked: %v", r)
			}
		}()
		comp.composite()
		comp.composite()
	}()
	if comp.frameWidth != 800 || comp.frameHeight != 600 {
		t.Fatalf("expected compositor 800x600 after error, got %dx%d", comp.frameWidth, comp.frameHeight)
	}
}

func TestDisplayConfig_FullscreenDefaultFalse(t *testing.T) {
	var config DisplayConfig
	if config.Fullscreen {
		t.Fatal("expected zero-value Fullscreen to be false")
	}
}

func TestClampScale(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{in: 0, want: 1},
		{in: -1, want: 1},
		{in: 1, want: 1},
		{in: 2, want: 2},
		{in: 4, want: 4},
		{in: 5, want: 4},
		{in: 999, want: 4},
	}
	for _, tc := range cases {
		if got := ClampScale(tc.in); got != tc.want {
			t.Fatalf("ClampScale(%d): want %d, got %d", tc.in, tc.want, got)
		}
	}
}
