package yoloprep

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	r := LabelRecord{ClassID: 3, Box: BoundingBox{X: 0.1, Y: 0.2, Width: 0.4, Height: 0.6}}

	c := Convert(r, CornerToCenter)
	assert.Equal(t, 3, c.ClassID)
	assert.InDelta(t, 0.3, c.Box.X, 1e-9)
	assert.InDelta(t, 0.5, c.Box.Y, 1e-9)
	assert.Equal(t, r.Box.Width, c.Box.Width)
	assert.Equal(t, r.Box.Height, c.Box.Height)

	back := Convert(c, CenterToCorner)
	assert.InDelta(t, r.Box.X, back.Box.X, 1e-9)
	assert.InDelta(t, r.Box.Y, back.Box.Y, 1e-9)
}

func TestConvertRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		r := LabelRecord{
			ClassID: rng.Intn(80),
			Box: BoundingBox{
				X: rng.Float64(), Y: rng.Float64(), Width: rng.Float64(), Height: rng.Float64(),
			},
		}
		for _, d := range []Direction{CornerToCenter, CenterToCorner} {
			inverse := Direction{From: d.To, To: d.From}
			got := Convert(Convert(r, d), inverse)
			assert.Equal(t, r.ClassID, got.ClassID)
			assert.InDelta(t, r.Box.X, got.Box.X, 1e-6)
			assert.InDelta(t, r.Box.Y, got.Box.Y, 1e-6)
			assert.Equal(t, r.Box.Width, got.Box.Width)
			assert.Equal(t, r.Box.Height, got.Box.Height)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "yolo -> yolov6", want: CornerToCenter},
		{in: "yolov6 -> yolo", want: CenterToCorner},
		{in: "yolo:yolov6", want: CornerToCenter},
		{in: "center->corner", want: CenterToCorner},
		{in: "yolo -> yolo", wantErr: true},
		{in: "yolo", wantErr: true},
		{in: "yolo -> coco", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				var cfgErr *ConfigError
				assert.True(t, errors.As(err, &cfgErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCorners(t *testing.T) {
	b := BoundingBox{X: 0.5, Y: 0.5, Width: 0.2, Height: 0.4}
	c := b.Corners(Center)
	assert.InDeltaSlice(t, []float64{0.4, 0.3, 0.6, 0.7}, c[:], 1e-9)

	c = b.Corners(Corner)
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.7, 0.9}, c[:], 1e-9)
}
