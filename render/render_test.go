package render

import (
	"encoding/json"
	"strings"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/curve"
	"github.com/TFMV/echoflow/graph"
	"github.com/TFMV/echoflow/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	a := models.NewPointWithID("a", "host", "Alpha")
	a.Position = math32.Vec3(0, 0, 0)
	a.Color = "#ff0000"
	b := models.NewPointWithID("b", "host", "Beta")
	b.Position = math32.Vec3(10, 5, 0)

	f := NewFrame("sample", 7)
	f.AddPoint(a)
	f.AddPoint(b)

	link := models.NewLink("a", "b", "wire", 1, nil)
	link.Color = "#00ff00"
	c := curve.Line{}.Compute(a.Position, b.Position, 8, nil, nil)
	f.AddLink(link, c, a.Position, b.Position, 4)

	s := NewScene()
	tok := NewToken("#0000ff", 3)
	tok.OnCreate()
	tok.SetPosition(math32.Vec3(5, 2.5, 0))
	s.AddEntity(tok)
	f.AddTokens(s)
	return f
}

func TestSceneKeepsInsertionOrder(t *testing.T) {
	s := NewScene()
	a, b, c := NewToken("#1", 1), NewToken("#2", 1), NewToken("#3", 1)

	s.AddEntity(a)
	s.AddEntity(b)
	s.AddEntity(a)
	s.AddEntity(c)
	assert.Equal(t, 3, s.Len())

	s.RemoveEntity(b)
	s.RemoveEntity(b)
	assert.Equal(t, []graph.Visual{a, c}, s.Entities())

	s.Clear()
	assert.Zero(t, s.Len())
}

func TestSceneTokensSkipDeadAndParked(t *testing.T) {
	s := NewScene()

	alive := NewToken("#fff", 2)
	alive.OnCreate()
	alive.SetPosition(math32.Vec3(1, 1, 1))
	dead := NewToken("#000", 2)

	shared := NewInstancedToken("dots", "#f0f", 1)
	shared.SetInstancePosition(0, math32.Vec3(2, 2, 2))
	shared.SetInstancePosition(2, math32.Vec3(3, 3, 3))
	assert.Equal(t, 3, shared.Slots())

	s.AddEntity(alive)
	s.AddEntity(dead)
	s.AddEntity(shared)

	tokens := s.Tokens()
	require.Len(t, tokens, 3)
	assert.Equal(t, math32.Vec3(1, 1, 1), tokens[0].Position)
	assert.False(t, tokens[0].Instanced)
	assert.True(t, tokens[1].Instanced)
	assert.Equal(t, math32.Vec3(3, 3, 3), tokens[2].Position)
}

func TestTokenCloneContinuesAge(t *testing.T) {
	tok := NewToken("#abc", 2)
	tok.OnCreate()
	tok.OnUpdate()
	tok.OnUpdate()

	clone := tok.Clone().(*Token)
	assert.Zero(t, clone.Age())
	clone.CopyState(tok)
	assert.Equal(t, 2, clone.Age())
	assert.Equal(t, "#abc", clone.Color)

	inst := NewInstancedToken("k", "#abc", 1)
	ic := inst.Clone()
	assert.Equal(t, "k", ic.(graph.InstancedVisual).InstanceKey())

	tok.OnDestroy()
	assert.False(t, tok.Alive())
}

func TestFrameLinkSamplesCurve(t *testing.T) {
	f := sampleFrame(t)

	require.Len(t, f.Links, 1)
	path := f.Links[0].Path
	require.Len(t, path, 5)
	assert.InDelta(t, 5, path[2].X, 1e-4)
	assert.InDelta(t, 2.5, path[2].Y, 1e-4)

	b := f.Bounds()
	assert.Equal(t, math32.Vec3(0, 0, 0), b.Min)
	assert.Equal(t, math32.Vec3(10, 5, 0), b.Max)

	// Without a curve the link is a straight segment
	f.AddLink(models.NewLink("b", "a", "", 1, nil), nil, math32.Vec3(10, 5, 0), math32.Vec3(0, 0, 0), 4)
	assert.Len(t, f.Links[1].Path, 2)
}

func TestProjectorKeepsAspectAndFlipsY(t *testing.T) {
	pr := newProjector(math32.B3(0, 0, 0, 10, 5, 0), 220, 120, 10)

	x, y := pr.project(math32.Vec3(0, 0, 0))
	assert.InDelta(t, 10, x, 1e-3)
	assert.InDelta(t, 110, y, 1e-3)

	x, y = pr.project(math32.Vec3(10, 5, 0))
	assert.InDelta(t, 210, x, 1e-3)
	assert.InDelta(t, 10, y, 1e-3)

	// Depth does not affect the projection
	x2, y2 := pr.project(math32.Vec3(10, 5, 99))
	assert.Equal(t, x, x2)
	assert.Equal(t, y, y2)
}

func TestSVGRenderer(t *testing.T) {
	out, err := (&SVGRenderer{}).Render(sampleFrame(t), NewDefaultOptions("svg"))
	require.NoError(t, err)

	svg := string(out)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Equal(t, 1, strings.Count(svg, "<polyline"))
	assert.Equal(t, 3, strings.Count(svg, "<circle"))
	assert.Contains(t, svg, `fill="#0000ff"`)
	assert.Contains(t, svg, ">Alpha</text>")
	assert.Contains(t, svg, "tick 7")
}

func TestASCIIRenderer(t *testing.T) {
	opts := NewDefaultOptions("ascii")
	out, err := (&ASCIIRenderer{}).Render(sampleFrame(t), opts)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	assert.Len(t, lines, 30)
	assert.Equal(t, 80, len([]rune(lines[0])))
	assert.Contains(t, string(out), "tick 7 tokens 1")
	assert.Contains(t, string(out), "EchoFlow - sample")
	assert.NotContains(t, string(out), "\x1b[")

	opts.Color = true
	out, err = (&ASCIIRenderer{}).Render(sampleFrame(t), opts)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\x1b[")
}

func TestJSONRenderer(t *testing.T) {
	out, err := (&JSONRenderer{}).Render(sampleFrame(t), NewDefaultOptions("json"))
	require.NoError(t, err)

	var decoded Frame
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, uint64(7), decoded.Tick)
	assert.Len(t, decoded.Points, 2)
	assert.Len(t, decoded.Tokens, 1)
}

func TestDOTRenderer(t *testing.T) {
	out, err := (&DOTRenderer{}).Render(sampleFrame(t), NewDefaultOptions("dot"))
	require.NoError(t, err)

	dot := string(out)
	assert.True(t, strings.HasPrefix(dot, "graph G {"))
	assert.Contains(t, dot, `"a" -- "b"`)
	assert.Contains(t, dot, `label="Alpha"`)
}

func TestHTMLRenderer(t *testing.T) {
	out, err := (&HTMLRenderer{}).Render(sampleFrame(t), NewDefaultOptions("html"))
	require.NoError(t, err)

	page := string(out)
	assert.Contains(t, page, "<canvas")
	assert.Contains(t, page, `"tick":7`)
	assert.Contains(t, page, "location.host + '/ws'")
}

func TestGetRenderer(t *testing.T) {
	for _, format := range Formats() {
		r, err := GetRenderer(strings.ToUpper(format))
		require.NoError(t, err, format)
		assert.NotEmpty(t, r.Name())
		assert.NotEmpty(t, r.Description())
	}

	_, err := GetRenderer("png")
	assert.Error(t, err)
}
