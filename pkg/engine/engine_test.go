package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/justyntemme/mbsync/pkg/band"
	"github.com/justyntemme/mbsync/pkg/metering"
)

func sine(n int, amplitude, freq, sampleRate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

func rmsDB(buf []float64) float64 {
	var sum float64
	for _, x := range buf {
		sum += x * x
	}
	return metering.MeanSquareToDB(sum / float64(len(buf)))
}

func newTestEngine(t *testing.T, modify func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if modify != nil {
		modify(&cfg)
	}
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e
}

func TestNew(t *testing.T) {
	e := newTestEngine(t, nil)

	if got := e.Parameters().Count(); got != 9 {
		t.Errorf("expected 9 parameters, got %d", got)
	}

	for _, b := range band.All() {
		p := e.Parameters().GetByName(band.DefaultBypassNames.Get(b))
		if p == nil {
			t.Fatalf("%v bypass parameter not registered", b)
		}
		if !p.IsToggle() || p.GetBool() {
			t.Errorf("%v bypass should be an inactive toggle", b)
		}
		if p.ShortName != b.String() {
			t.Errorf("%v bypass short name = %q, want %q", b, p.ShortName, b.String())
		}
		if p.ID != BypassParamID(b) {
			t.Errorf("%v bypass ID = %d, want %d", b, p.ID, BypassParamID(b))
		}

		th := e.Parameters().Get(ThresholdParamID(b))
		if th == nil || math.Abs(th.GetPlainValue()) > 1e-9 {
			t.Errorf("%v threshold should default to 0 dB", b)
		}
		r := e.Parameters().Get(RatioParamID(b))
		if r == nil || math.Abs(r.GetPlainValue()-3) > 1e-9 {
			t.Errorf("%v ratio should default to 3:1", b)
		}
	}

	if err := e.Info().ValidateUID(); err != nil {
		t.Errorf("default plugin info invalid: %v", err)
	}
	if got := e.Info().Title(); got != "GM MultiBand Comp 1.0.0" {
		t.Errorf("Title() = %q", got)
	}
	if e.Snapshot().FetchLatest() != metering.SilentFrame() {
		t.Error("snapshot should start silent")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"SampleRate", func(c *Config) { c.SampleRate = 0 }},
		{"BlockSize", func(c *Config) { c.MaxBlockSize = 0 }},
		{"CrossoverOrder", func(c *Config) { c.LowMidHz = 3000 }},
		{"CrossoverNyquist", func(c *Config) { c.MidHighHz = 30000 }},
		{"NegativeTime", func(c *Config) { c.AttackMs = -1 }},
		{"Threshold", func(c *Config) { c.ThresholdDB[band.Mid] = 20 }},
		{"Ratio", func(c *Config) { c.Ratio[band.High] = 0.5 }},
		{"DuplicateNames", func(c *Config) { c.ThresholdNames = c.BypassNames }},
		{"EmptyPluginID", func(c *Config) { c.Info.ID = "" }},
		{"PluginIDWhitespace", func(c *Config) { c.Info.ID = "com.mbsync multiband" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			e, err := New(cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if e != nil {
				t.Error("no engine should be returned for an invalid configuration")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestCrossover(t *testing.T) {
	const sr = 48000

	t.Run("SumsFlat", func(t *testing.T) {
		for _, freq := range []float64{100, 400, 1000, 2000, 8000} {
			c := NewCrossover(sr, 400, 2000)
			in := sine(sr/2, 0.5, freq, sr)
			low := make([]float64, len(in))
			mid := make([]float64, len(in))
			high := make([]float64, len(in))

			c.Split(in, low, mid, high)

			sum := make([]float64, len(in))
			for i := range sum {
				sum[i] = low[i] + mid[i] + high[i]
			}

			// Skip the transient
			settled := len(in) / 2
			if diff := rmsDB(sum[settled:]) - rmsDB(in[settled:]); math.Abs(diff) > 0.1 {
				t.Errorf("%v Hz: band sum deviates by %.3f dB", freq, diff)
			}
		}
	})

	t.Run("RoutesToBands", func(t *testing.T) {
		tests := []struct {
			freq float64
			want band.Band
		}{
			{60, band.Low},
			{900, band.Mid},
			{10000, band.High},
		}
		for _, tt := range tests {
			c := NewCrossover(sr, 400, 2000)
			in := sine(sr/4, 0.5, tt.freq, sr)
			var bands [band.Count][]float64
			for i := range bands {
				bands[i] = make([]float64, len(in))
			}
			c.Split(in, bands[band.Low], bands[band.Mid], bands[band.High])

			settled := len(in) / 2
			loudest := band.Low
			for _, b := range band.All() {
				if rmsDB(bands[b][settled:]) > rmsDB(bands[loudest][settled:]) {
					loudest = b
				}
			}
			if loudest != tt.want {
				t.Errorf("%v Hz landed in %v band, want %v", tt.freq, loudest, tt.want)
			}
		}
	})

	t.Run("Frequencies", func(t *testing.T) {
		c := NewCrossover(sr, 400, 2000)
		c.SetFrequencies(250, 4000)
		if lo, hi := c.Frequencies(); lo != 250 || hi != 4000 {
			t.Errorf("Frequencies() = %v, %v", lo, hi)
		}
	})
}

func TestCompressor(t *testing.T) {
	const sr = 48000

	t.Run("BelowThreshold", func(t *testing.T) {
		c := NewCompressor(sr)
		c.SetThreshold(-20)
		in := sine(4800, 0.01, 1000, sr) // -40 dBFS peak
		gains := make([]float64, len(in))
		c.ComputeGains(in, gains)

		for i, g := range gains {
			if g != 1 {
				t.Fatalf("sample %d: gain %v below threshold", i, g)
			}
		}
	})

	t.Run("AboveThreshold", func(t *testing.T) {
		c := NewCompressor(sr)
		c.SetThreshold(-20)
		c.SetRatio(4)
		buf := sine(9600, 1.0, 1000, sr)
		before := rmsDB(buf[4800:])
		c.Process(buf, make([]float64, len(buf)))

		if c.GainReduction() < 10 {
			t.Errorf("gain reduction %.2f dB, want > 10 dB", c.GainReduction())
		}
		if after := rmsDB(buf[4800:]); after > before-10 {
			t.Errorf("output %.2f dB not compressed from %.2f dB", after, before)
		}
	})

	t.Run("KneeIsContinuous", func(t *testing.T) {
		c := NewCompressor(sr)
		c.SetThreshold(-20)
		c.SetRatio(4)
		c.SetKnee(6)
		for _, edge := range []float64{-23, -17} {
			lo := c.computeGain(edge - 1e-9)
			hi := c.computeGain(edge + 1e-9)
			if math.Abs(lo-hi) > 1e-6 {
				t.Errorf("gain curve jumps at %v dB: %v vs %v", edge, lo, hi)
			}
		}
	})

	t.Run("Reset", func(t *testing.T) {
		c := NewCompressor(sr)
		c.Process(sine(480, 1, 1000, sr), make([]float64, 480))
		c.Reset()
		if c.GainReduction() != 0 {
			t.Error("Reset should clear gain reduction")
		}
	})
}

func TestProcessBlock(t *testing.T) {
	t.Run("PublishesOncePerBlock", func(t *testing.T) {
		e := newTestEngine(t, nil)
		in := sine(256, 0.5, 1000, 48000)
		out := make([]float64, len(in))

		e.ProcessBlock(in, out)
		e.ProcessBlock(in, out)

		if v := e.Snapshot().Version(); v != 2 {
			t.Errorf("Version() = %d, want 2", v)
		}
		mid := e.Snapshot().FetchLatest().Band(band.Mid)
		if mid.InputDB <= metering.SilenceDB || mid.OutputDB <= metering.SilenceDB {
			t.Errorf("mid band should carry signal, got %+v", mid)
		}
	})

	t.Run("OversizedBlocksAreChunked", func(t *testing.T) {
		in := sine(1300, 0.8, 700, 48000)

		whole := newTestEngine(t, nil)
		wholeOut := make([]float64, len(in))
		whole.ProcessBlock(in, wholeOut)

		chunked := newTestEngine(t, nil)
		chunkedOut := make([]float64, len(in))
		for _, r := range [][2]int{{0, 512}, {512, 1024}, {1024, 1300}} {
			chunked.ProcessBlock(in[r[0]:r[1]], chunkedOut[r[0]:r[1]])
		}

		for i := range wholeOut {
			if wholeOut[i] != chunkedOut[i] {
				t.Fatalf("sample %d: %v != %v", i, wholeOut[i], chunkedOut[i])
			}
		}
		if whole.Snapshot().Version() != 1 {
			t.Errorf("an oversized block should publish once, got %d", whole.Snapshot().Version())
		}
	})

	t.Run("InPlace", func(t *testing.T) {
		in := sine(512, 0.5, 300, 48000)

		ref := newTestEngine(t, nil)
		want := make([]float64, len(in))
		ref.ProcessBlock(in, want)

		e := newTestEngine(t, nil)
		buf := append([]float64(nil), in...)
		e.ProcessBlock(buf, buf)

		for i := range buf {
			if buf[i] != want[i] {
				t.Fatalf("sample %d: in-place %v, want %v", i, buf[i], want[i])
			}
		}
	})

	t.Run("ShortOutput", func(t *testing.T) {
		e := newTestEngine(t, nil)
		e.ProcessBlock(make([]float64, 64), make([]float64, 32))
		if e.Snapshot().Version() != 1 {
			t.Error("mismatched buffers should still process and publish")
		}
	})

	t.Run("NoAllocations", func(t *testing.T) {
		e := newTestEngine(t, nil)
		in := sine(1024, 0.5, 1000, 48000)
		out := make([]float64, len(in))

		if allocs := testing.AllocsPerRun(50, func() { e.ProcessBlock(in, out) }); allocs != 0 {
			t.Errorf("ProcessBlock allocated %.1f times", allocs)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		e := newTestEngine(t, nil)
		in := sine(512, 0.5, 1000, 48000)
		e.ProcessBlock(in, make([]float64, 512))
		e.Reset()
		if e.Snapshot().FetchLatest() != metering.SilentFrame() {
			t.Error("Reset should publish silence")
		}
	})
}

func TestBandBypass(t *testing.T) {
	squash := func(c *Config) {
		for _, b := range band.All() {
			c.ThresholdDB[b] = MinThresholdDB
			c.Ratio[b] = MaxRatio
		}
	}

	run := func(e *Engine) {
		in := sine(512, 0.5, 900, 48000)
		out := make([]float64, len(in))
		for i := 0; i < 40; i++ {
			e.ProcessBlock(in, out)
		}
	}

	t.Run("ActiveBandCompresses", func(t *testing.T) {
		e := newTestEngine(t, squash)
		run(e)

		mid := e.Band(band.Mid)
		if mid.GetRMSOutputLevelDb() > mid.GetRMSInputLevelDb()-6 {
			t.Errorf("mid band not compressed: in %.2f out %.2f dB",
				mid.GetRMSInputLevelDb(), mid.GetRMSOutputLevelDb())
		}
	})

	t.Run("BypassedBandPassesThrough", func(t *testing.T) {
		e := newTestEngine(t, func(c *Config) {
			squash(c)
			c.MeterIntegrationMs = 0 // compare the last block only
		})
		e.Parameters().Get(BypassParamID(band.Mid)).SetValue(1)
		run(e)

		mid := e.Band(band.Mid)
		if !mid.Bypassed() {
			t.Fatal("mid band should report bypassed")
		}
		if d := mid.GetRMSOutputLevelDb() - mid.GetRMSInputLevelDb(); math.Abs(d) > 1e-6 {
			t.Errorf("bypassed band changed level by %.3f dB", d)
		}
	})

	t.Run("BypassFadesIn", func(t *testing.T) {
		e := newTestEngine(t, squash)
		run(e)

		e.Parameters().Get(BypassParamID(band.Mid)).SetValue(1)
		in := sine(64, 0.5, 900, 48000)
		e.ProcessBlock(in, make([]float64, 64))

		mid := e.Band(band.Mid)
		if !mid.mix.IsSmoothing() {
			t.Error("bypass should ramp rather than switch instantly")
		}

		run(e)
		if mid.mix.IsSmoothing() || mid.mix.Current() != 0 {
			t.Errorf("ramp should settle at 0, got %v", mid.mix.Current())
		}
	})
}

func BenchmarkProcessBlock(b *testing.B) {
	e, err := New(DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	in := sine(512, 0.5, 1000, 48000)
	out := make([]float64, len(in))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.ProcessBlock(in, out)
	}
}
