package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_edge_detect",
		"circles_detect",
		"circles_suppress",
		"circles_annotate",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}
			if _, ok := tool.InputSchema["required"].([]string); !ok {
				t.Error("'required' should be a string slice")
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := []struct {
		tool     string
		required string
	}{
		{"image_load", "path"},
		{"image_dimensions", "path"},
		{"image_edge_detect", "path"},
		{"circles_detect", "path"},
		{"circles_annotate", "path"},
		{"circles_suppress", "circles"},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			required, _ := toolMap[tt.tool].InputSchema["required"].([]string)
			found := false
			for _, r := range required {
				if r == tt.required {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s should require '%s', got %v", tt.tool, tt.required, required)
			}
		})
	}
}

func TestToolDefinitions_SuppressionOverrides(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "circles_detect" && tool.Name != "circles_suppress" && tool.Name != "circles_annotate" {
			continue
		}
		t.Run(tool.Name, func(t *testing.T) {
			props := tool.InputSchema["properties"].(map[string]interface{})
			for _, key := range []string{"overlap_threshold", "priority", "metric"} {
				if _, ok := props[key]; !ok {
					t.Errorf("missing property %s", key)
				}
			}

			priority := props["priority"].(map[string]interface{})
			enum, ok := priority["enum"].([]string)
			if !ok || len(enum) != 2 {
				t.Errorf("priority enum: got %v", priority["enum"])
			}
		})
	}
}

func TestToolDefinitions_AnnotateOutput(t *testing.T) {
	var annotate Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "circles_annotate" {
			annotate = tool
		}
	}
	props := annotate.InputSchema["properties"].(map[string]interface{})
	for _, key := range []string{"path", "output_dir", "width", "height", "min_radius", "max_radius"} {
		if _, ok := props[key]; !ok {
			t.Errorf("circles_annotate missing property %s", key)
		}
	}
}
