package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-well-inspection/internal/descriptions"
	"github.com/a3tai/mcp-well-inspection/internal/form"
)

func tool(name string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append([]mcp.ToolOption{mcp.WithDescription(descriptions.GetToolDescription(name))}, opts...)...)
}

func groupParam() mcp.ToolOption {
	return mcp.WithString("group",
		mcp.Required(),
		mcp.Description("Checklist item key, e.g. tuberia"),
	)
}

func optionParam() mcp.ToolOption {
	return mcp.WithString("option",
		mcp.Required(),
		mcp.Description("Option of the item, e.g. Buena"),
	)
}

func actionColumnParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("description", mcp.Description("What has to be done")),
		mcp.WithString("responsible", mcp.Description("Who is responsible")),
		mcp.WithString("priority",
			mcp.Description("Priority of the action"),
			mcp.Enum(string(form.PriorityAlta), string(form.PriorityMedia), string(form.PriorityBaja)),
		),
		mcp.WithString("date", mcp.Description("Due date, YYYY-MM-DD")),
	}
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	tools := []server.ServerTool{
		// Form state
		{Tool: tool("form_catalog"), Handler: s.handleFormCatalog},
		{Tool: tool("form_select_option", groupParam(), optionParam()), Handler: s.handleFormSelectOption},
		{Tool: tool("form_toggle_option", groupParam(), optionParam()), Handler: s.handleFormToggleOption},
		{Tool: tool("form_clear_group", groupParam()), Handler: s.handleFormClearGroup},
		{
			Tool: tool("form_clear_section",
				mcp.WithString("section",
					mcp.Required(),
					mcp.Description("Section to clear"),
					mcp.Enum(string(form.SectionEstructura), string(form.SectionCaptacion), string(form.SectionCircundante)),
				),
			),
			Handler: s.handleFormClearSection,
		},
		{Tool: tool("form_clear_all"), Handler: s.handleFormClearAll},
		{Tool: tool("form_reset_fields"), Handler: s.handleFormResetFields},
		{
			Tool: tool("form_set_field",
				mcp.WithString("field", mcp.Required(), mcp.Description("Text field key, e.g. inspector")),
				mcp.WithString("value", mcp.Description("New value; empty clears the field")),
			),
			Handler: s.handleFormSetField,
		},
		{Tool: tool("form_snapshot"), Handler: s.handleFormSnapshot},

		// Corrective actions
		{Tool: tool("action_add", actionColumnParams()...), Handler: s.handleActionAdd},
		{
			Tool: tool("action_update", append([]mcp.ToolOption{
				mcp.WithString("id", mcp.Required(), mcp.Description("Action id as returned by action_add")),
			}, actionColumnParams()...)...),
			Handler: s.handleActionUpdate,
		},
		{
			Tool:    tool("action_remove", mcp.WithString("id", mcp.Required(), mcp.Description("Action id"))),
			Handler: s.handleActionRemove,
		},

		// Photos
		{
			Tool: tool("photo_add",
				mcp.WithArray("paths",
					mcp.Required(),
					mcp.Description("Local file paths or http(s) URLs of the photos"),
					mcp.Items(map[string]any{"type": "string"}),
				),
			),
			Handler: s.handlePhotoAdd,
		},
		{
			Tool: tool("photo_remove",
				mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based position of the photo")),
			),
			Handler: s.handlePhotoRemove,
		},
		{Tool: tool("photo_clear"), Handler: s.handlePhotoClear},

		// GPS
		{Tool: tool("gps_capture"), Handler: s.handleGPSCapture},
		{
			Tool: tool("gps_set_mode",
				mcp.WithString("mode", mcp.Required(), mcp.Description("GPS entry mode"), mcp.Enum("auto", "manual")),
			),
			Handler: s.handleGPSSetMode,
		},
		{
			Tool: tool("gps_set_manual",
				mcp.WithString("coordinates", mcp.Required(), mcp.Description(`"lat, lon" in decimal degrees; empty clears`)),
			),
			Handler: s.handleGPSSetManual,
		},

		// Reports
		{Tool: tool("report_export_pdf"), Handler: s.handleReportExportPDF},
		{Tool: tool("report_email"), Handler: s.handleReportEmail},
		{Tool: tool("report_print"), Handler: s.handleReportPrint},
		{Tool: tool("report_text"), Handler: s.handleReportText},
		{Tool: tool("server_info"), Handler: s.handleServerInfo},
	}

	s.mcpServer.AddTools(tools...)
}
