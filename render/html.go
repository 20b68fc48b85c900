package render

import (
	"encoding/json"
	"fmt"
	"html"
)

// HTMLRenderer outputs a self-contained page that draws the frame on a
// canvas and keeps redrawing it from frames streamed over a websocket
type HTMLRenderer struct{}

// Name returns the name of the renderer
func (r *HTMLRenderer) Name() string {
	return "HTML Renderer"
}

// Description returns a description of the renderer
func (r *HTMLRenderer) Description() string {
	return "Renders an animated canvas page that follows the live simulation"
}

// Render creates an HTML page embedding the frame
func (r *HTMLRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, err
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>EchoFlow - %s</title>
    <style>
        body, html { margin: 0; padding: 0; height: 100%%; overflow: hidden; background: %s; font-family: sans-serif; }
        #status { position: absolute; left: 8px; bottom: 8px; font-size: 11px; color: #808080; }
    </style>
</head>
<body>
    <canvas id="scene"></canvas>
    <div id="status"></div>
    <script>
    const canvas = document.getElementById('scene');
    const ctx = canvas.getContext('2d');
    const status = document.getElementById('status');
    const padding = %g;
    let frame = %s;

    function resize() {
        canvas.width = window.innerWidth;
        canvas.height = window.innerHeight;
        draw();
    }

    function bounds(f) {
        const b = {minX: Infinity, minY: Infinity, maxX: -Infinity, maxY: -Infinity};
        const add = p => {
            b.minX = Math.min(b.minX, p.X); b.maxX = Math.max(b.maxX, p.X);
            b.minY = Math.min(b.minY, p.Y); b.maxY = Math.max(b.maxY, p.Y);
        };
        (f.points || []).forEach(p => add(p.position));
        (f.links || []).forEach(l => (l.path || []).forEach(add));
        if (!isFinite(b.minX)) { b.minX = b.minY = -1; b.maxX = b.maxY = 1; }
        return b;
    }

    function draw() {
        const b = bounds(frame);
        const w = canvas.width - 2 * padding, h = canvas.height - 2 * padding;
        const sx = Math.max(b.maxX - b.minX, 1e-3), sy = Math.max(b.maxY - b.minY, 1e-3);
        const scale = Math.min(w / sx, h / sy);
        const ox = padding + (w - sx * scale) / 2, oy = padding + (h - sy * scale) / 2;
        const project = p => [ox + (p.X - b.minX) * scale, canvas.height - (oy + (p.Y - b.minY) * scale)];

        ctx.clearRect(0, 0, canvas.width, canvas.height);

        (frame.links || []).forEach(l => {
            ctx.strokeStyle = l.color || '#666666';
            ctx.lineWidth = %g;
            ctx.beginPath();
            (l.path || []).forEach((p, i) => {
                const [x, y] = project(p);
                if (i === 0) ctx.moveTo(x, y); else ctx.lineTo(x, y);
            });
            ctx.stroke();
        });

        (frame.points || []).forEach(p => {
            const [x, y] = project(p.position);
            ctx.fillStyle = p.color || '#4285F4';
            ctx.beginPath();
            ctx.arc(x, y, p.size || %g, 0, 2 * Math.PI);
            ctx.fill();
            if (%t && p.label) {
                ctx.fillStyle = '#333333';
                ctx.font = '%gpx sans-serif';
                ctx.textAlign = 'center';
                ctx.fillText(p.label, x, y + (p.size || %g) + %g + 2);
            }
        });

        (frame.tokens || []).forEach(t => {
            const [x, y] = project(t.position);
            ctx.fillStyle = t.color;
            ctx.beginPath();
            ctx.arc(x, y, t.radius || %g, 0, 2 * Math.PI);
            ctx.fill();
        });

        status.textContent = 'tick ' + frame.tick + ' | tokens ' + (frame.tokens || []).length;
    }

    function connect() {
        const scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
        const socket = new WebSocket(scheme + location.host + '%s');
        socket.onmessage = e => { frame = JSON.parse(e.data); draw(); };
        socket.onclose = () => setTimeout(connect, 1000);
    }

    window.addEventListener('resize', resize);
    resize();
    if (location.protocol.startsWith('http')) connect();
    </script>
</body>
</html>
`,
		html.EscapeString(frame.Name),
		options.Background,
		options.Padding,
		data,
		options.LinkWidth,
		options.PointSize,
		options.ShowLabels,
		options.FontSize,
		options.PointSize,
		options.FontSize,
		options.TokenSize,
		options.Stream)

	return []byte(page), nil
}
