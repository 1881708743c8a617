package markers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huijiwiki/wikimap/pkg/geo"
)

func TestValidateMarker(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    MarkerInfo
		wantErr bool
	}{
		{
			name: "full entry",
			raw:  `{"coords":{"x":1,"y":2},"tag":"A","tooltip":"t","markerImage":"i.png"}`,
			want: MarkerInfo{Coords: geo.Point{X: 1, Y: 2}, Tag: "A", Tooltip: "t", MarkerImage: "i.png"},
		},
		{
			name: "coords only",
			raw:  `{"coords":{"x":0,"y":0}}`,
			want: MarkerInfo{},
		},
		{
			name: "fractional coords",
			raw:  `{"coords":{"x":12.5,"y":-3.25}}`,
			want: MarkerInfo{Coords: geo.Point{X: 12.5, Y: -3.25}},
		},
		{name: "missing coords", raw: `{"tag":"A"}`, wantErr: true},
		{name: "coords missing y", raw: `{"coords":{"x":1}}`, wantErr: true},
		{name: "coords wrong type", raw: `{"coords":{"x":"1","y":2}}`, wantErr: true},
		{name: "not an object", raw: `"garbage"`, wantErr: true},
		{name: "number", raw: `7`, wantErr: true},
		{name: "tooltip wrong type", raw: `{"coords":{"x":1,"y":2},"tooltip":5}`, wantErr: true},
		{name: "markerImage wrong type", raw: `{"coords":{"x":1,"y":2},"markerImage":[]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateMarker(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarkerInfoJSONOmitsEmptyFields(t *testing.T) {
	out, err := json.Marshal(MarkerInfo{Coords: geo.Point{X: 1, Y: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"coords":{"x":1,"y":2}}`, string(out))
}

func TestParseDocumentReportsDropped(t *testing.T) {
	raw := json.RawMessage(`{"markers":[{"coords":{"x":1,"y":2}},{"bad":true},"junk"]}`)

	valid, dropped, err := parseDocument(raw)
	require.NoError(t, err)
	assert.Len(t, valid, 1)
	assert.Len(t, dropped, 2)
	assert.Contains(t, dropped[0].Error(), "entry 1")
	assert.Contains(t, dropped[1].Error(), "entry 2")
}
