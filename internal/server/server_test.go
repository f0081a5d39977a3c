package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"image/color"
	"strings"
	"testing"

	"github.com/ironsheep/image-effects-mcp/internal/config"
)

// wireResponse is a response line as a client decodes it.
type wireResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *MCPError       `json:"error"`
}

// toolText returns the JSON text a tools/call response carries.
func (r wireResponse) toolText(t *testing.T) string {
	t.Helper()
	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(r.Result, &result); err != nil {
		t.Fatalf("invalid tools/call result %s: %v", r.Result, err)
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("unexpected content: %+v", result.Content)
	}
	return result.Content[0].Text
}

// serveLines feeds lines to s.Serve and decodes every response line.
func serveLines(t *testing.T, s *Server, lines ...string) []wireResponse {
	t.Helper()

	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(strings.Join(lines, "\n")), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []wireResponse
	scanner := bufio.NewScanner(&out)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var resp wireResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response line %q: %v", scanner.Text(), err)
		}
		if resp.JSONRPC != "2.0" {
			t.Errorf("jsonrpc: got %q, want 2.0", resp.JSONRPC)
		}
		responses = append(responses, resp)
	}
	return responses
}

// toolCall renders one tools/call request line.
func toolCall(t *testing.T, id int, name string, args map[string]interface{}) string {
	t.Helper()
	b, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params":  map[string]interface{}{"name": name, "arguments": args},
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return string(b)
}

func TestServe_Handshake(t *testing.T) {
	responses := serveLines(t, New(),
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{not json`,
		`{"jsonrpc":"2.0","id":"ping-1","method":"ping"}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`,
	)

	// The notification and the blank line get no response.
	if len(responses) != 4 {
		t.Fatalf("got %d responses, want 4", len(responses))
	}

	var init struct {
		ProtocolVersion string                 `json:"protocolVersion"`
		Capabilities    map[string]interface{} `json:"capabilities"`
		ServerInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(responses[0].Result, &init); err != nil {
		t.Fatalf("invalid initialize result: %v", err)
	}
	if responses[0].ID != float64(1) || init.ProtocolVersion != "2024-11-05" {
		t.Errorf("initialize: id %v, protocol %q", responses[0].ID, init.ProtocolVersion)
	}
	if init.ServerInfo.Name != ServerName || init.ServerInfo.Version != ServerVersion {
		t.Errorf("serverInfo: got %+v", init.ServerInfo)
	}
	if _, ok := init.Capabilities["tools"]; !ok {
		t.Error("initialize should advertise the tools capability")
	}

	if responses[1].ID != nil || responses[1].Error == nil || responses[1].Error.Code != -32700 {
		t.Errorf("parse error response: %+v", responses[1])
	}
	if responses[2].ID != "ping-1" || responses[2].Error != nil {
		t.Errorf("ping response: %+v", responses[2])
	}
	if responses[3].Error == nil || responses[3].Error.Code != -32601 {
		t.Errorf("unknown method response: %+v", responses[3])
	}
}

func TestServe_ToolsList(t *testing.T) {
	responses := serveLines(t, New(), `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	if len(responses) != 1 || responses[0].Error != nil {
		t.Fatalf("tools/list: %+v", responses)
	}

	var result struct {
		Tools []Tool `json:"tools"`
	}
	if err := json.Unmarshal(responses[0].Result, &result); err != nil {
		t.Fatalf("invalid tools/list result: %v", err)
	}
	if len(result.Tools) != 9 {
		t.Errorf("got %d tools, want 9", len(result.Tools))
	}
}

func TestServe_ToolErrors(t *testing.T) {
	imgPath := createTestImageFile(t, 8, 8, color.NRGBA{10, 20, 30, 255})

	responses := serveLines(t, New(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":"image_load"}`,
		toolCall(t, 2, "image_apply_operator", map[string]interface{}{"path": "/nonexistent/in.png", "operator": "invert"}),
		toolCall(t, 3, "image_apply_operator", map[string]interface{}{"path": imgPath, "operator": "sharpen"}),
		toolCall(t, 4, "image_frosted_glass", map[string]interface{}{"path": imgPath, "amount": -1}),
		toolCall(t, 5, "image_frosted_glass", map[string]interface{}{"path": imgPath, "output_path": "/tmp/out.jpg"}),
	)

	tests := []struct {
		name string
		code int
	}{
		{"malformed params", -32602},
		{"missing image", -32000},
		{"unknown operator", -32000},
		{"amount out of range", -32000},
		{"unsupported output format", -32000},
	}
	if len(responses) != len(tests) {
		t.Fatalf("got %d responses, want %d", len(responses), len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := responses[i]
			if resp.ID != float64(i+1) {
				t.Errorf("ID: got %v, want %d", resp.ID, i+1)
			}
			if resp.Error == nil {
				t.Fatalf("expected error %d, got result %s", tt.code, resp.Result)
			}
			if resp.Error.Code != tt.code {
				t.Errorf("code: got %d, want %d", resp.Error.Code, tt.code)
			}
			if resp.Error.Data == nil || resp.Error.Data == "" {
				t.Error("error data should carry the cause")
			}
		})
	}
}

func TestServe_ApplyOperator(t *testing.T) {
	imgPath := createTestImageFile(t, 12, 6, color.NRGBA{0, 0, 0, 255})

	responses := serveLines(t, New(), toolCall(t, 1, "image_apply_operator", map[string]interface{}{
		"path":     imgPath,
		"operator": "invert",
		"regions":  []map[string]interface{}{{"x1": 0, "y1": 0, "x2": 6, "y2": 6}},
	}))
	if len(responses) != 1 || responses[0].Error != nil {
		t.Fatalf("tools/call: %+v", responses)
	}

	var res OperatorResult
	if err := json.Unmarshal([]byte(responses[0].toolText(t)), &res); err != nil {
		t.Fatalf("invalid tool result: %v", err)
	}
	if res.RenderResult == nil || res.Operator != "invert" {
		t.Fatalf("result: %+v", res)
	}
	if res.Diff.PixelsChanged != 36 || res.Diff.TotalPixels != 72 {
		t.Errorf("diff: %d of %d changed, want 36 of 72", res.Diff.PixelsChanged, res.Diff.TotalPixels)
	}
	if res.Image == nil || res.Image.MimeType != "image/png" || res.Image.ImageBase64 == "" {
		t.Errorf("image: %+v", res.Image)
	}
}

func TestServe_FrostedGlassConfiguredSeed(t *testing.T) {
	imgPath := createNoiseImageFile(t, 20, 20)
	cfg := config.Config{Workers: 2, Seed: 99}
	line := toolCall(t, 1, "image_frosted_glass", map[string]interface{}{"path": imgPath, "amount": 3})

	render := func() *RenderResult {
		responses := serveLines(t, NewWithConfig(cfg), line)
		if len(responses) != 1 || responses[0].Error != nil {
			t.Fatalf("tools/call: %+v", responses)
		}
		var res RenderResult
		if err := json.Unmarshal([]byte(responses[0].toolText(t)), &res); err != nil {
			t.Fatalf("invalid tool result: %v", err)
		}
		return &res
	}

	first, second := render(), render()
	if first.Effect != "frosted_glass" || first.Regions != 1 {
		t.Errorf("result: effect %q, %d regions", first.Effect, first.Regions)
	}
	if first.Image.ImageBase64 != second.Image.ImageBase64 {
		t.Error("renders with the same configured seed differ")
	}
}
