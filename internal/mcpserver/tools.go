package mcpserver

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/temirov/makemcp/internal/execution"
)

// ToolIdentifier tags a tool in the dispatch table.
type ToolIdentifier string

// Tool identifiers exposed by the server.
const (
	ToolIdentifierListTargets ToolIdentifier = "list-targets"
	ToolIdentifierRunTarget   ToolIdentifier = "run-target"
)

const (
	listTargetsToolDescriptionConstant = "List available Make targets with their descriptions"
	patternParameterNameConstant       = "pattern"
	patternParameterUsageConstant      = "Regular expression filtering target names; * lists every target"
	unfilteredPatternConstant          = "*"

	runTargetToolDescriptionConstant = "Run a Make target and return its output"
	targetParameterNameConstant      = "target"
	targetParameterUsageConstant     = "Name of the Make target to run"
	timeoutParameterNameConstant     = "timeout"
	timeoutParameterUsageConstant    = "Maximum execution time in seconds"

	invalidPatternTemplateConstant   = "Invalid pattern: %v"
	noDescriptionPlaceholderConstant = "No description"
	targetLineTemplateConstant       = "%s: %s"
	targetLineSeparatorConstant      = "\n"

	toolInvokedMessageConstant = "tool invoked"
	logFieldToolConstant       = "tool"
)

type toolDefinition struct {
	definition mcp.Tool
	handler    server.ToolHandlerFunc
}

var toolRegistrationOrder = []ToolIdentifier{
	ToolIdentifierListTargets,
	ToolIdentifierRunTarget,
}

// toolDefinitions builds the dispatch table keyed by tool identifier.
func (protocolServer *Server) toolDefinitions() map[ToolIdentifier]toolDefinition {
	return map[ToolIdentifier]toolDefinition{
		ToolIdentifierListTargets: {
			definition: mcp.NewTool(
				string(ToolIdentifierListTargets),
				mcp.WithDescription(listTargetsToolDescriptionConstant),
				mcp.WithString(
					patternParameterNameConstant,
					mcp.Description(patternParameterUsageConstant),
					mcp.DefaultString(unfilteredPatternConstant),
				),
			),
			handler: protocolServer.handleListTargets,
		},
		ToolIdentifierRunTarget: {
			definition: mcp.NewTool(
				string(ToolIdentifierRunTarget),
				mcp.WithDescription(runTargetToolDescriptionConstant),
				mcp.WithString(
					targetParameterNameConstant,
					mcp.Required(),
					mcp.Description(targetParameterUsageConstant),
				),
				mcp.WithNumber(
					timeoutParameterNameConstant,
					mcp.Description(timeoutParameterUsageConstant),
					mcp.Min(execution.MinimumTimeoutSeconds),
					mcp.Max(execution.MaximumTimeoutSeconds),
					mcp.DefaultNumber(float64(protocolServer.defaultTimeoutSeconds())),
				),
			),
			handler: protocolServer.handleRunTarget,
		},
	}
}

func (protocolServer *Server) registerTools() {
	definitions := protocolServer.toolDefinitions()
	for _, toolIdentifier := range toolRegistrationOrder {
		registeredTool := definitions[toolIdentifier]
		protocolServer.mcpServer.AddTool(registeredTool.definition, registeredTool.handler)
	}
}

func (protocolServer *Server) defaultTimeoutSeconds() int {
	if protocolServer.configuration.DefaultTimeoutSeconds > 0 {
		return protocolServer.configuration.DefaultTimeoutSeconds
	}
	return execution.DefaultTimeoutSeconds
}

// handleListTargets lists targets as "name: description" lines, optionally
// filtered by a regular expression. The literal * keeps every target.
func (protocolServer *Server) handleListTargets(executionContext context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	protocolServer.logger.Debug(toolInvokedMessageConstant, zap.String(logFieldToolConstant, string(ToolIdentifierListTargets)))

	patternValue := request.GetString(patternParameterNameConstant, unfilteredPatternConstant)

	var patternMatcher *regexp.Regexp
	if patternValue != unfilteredPatternConstant {
		compiledPattern, compileError := regexp.Compile(patternValue)
		if compileError != nil {
			return mcp.NewToolResultError(fmt.Sprintf(invalidPatternTemplateConstant, compileError)), nil
		}
		patternMatcher = compiledPattern
	}

	parsedTargets, parseError := protocolServer.catalog.ParseTargets(executionContext)
	if parseError != nil {
		return mcp.NewToolResultError(parseError.Error()), nil
	}

	targetLines := []string{}
	for _, parsedTarget := range parsedTargets {
		if patternMatcher != nil && !patternMatcher.MatchString(parsedTarget.Name) {
			continue
		}

		targetDescription := parsedTarget.Description
		if len(targetDescription) == 0 {
			targetDescription = noDescriptionPlaceholderConstant
		}
		targetLines = append(targetLines, fmt.Sprintf(targetLineTemplateConstant, parsedTarget.Name, targetDescription))
	}

	return mcp.NewToolResultText(strings.Join(targetLines, targetLineSeparatorConstant)), nil
}

// handleRunTarget runs the requested target and returns its captured standard
// output. Failures surface as a single error message carrying the internal
// distinction in its text.
func (protocolServer *Server) handleRunTarget(executionContext context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	protocolServer.logger.Debug(toolInvokedMessageConstant, zap.String(logFieldToolConstant, string(ToolIdentifierRunTarget)))

	targetName, targetError := request.RequireString(targetParameterNameConstant)
	if targetError != nil {
		return mcp.NewToolResultError(targetError.Error()), nil
	}

	timeoutSeconds := request.GetInt(timeoutParameterNameConstant, protocolServer.defaultTimeoutSeconds())

	standardOutput, runError := protocolServer.runner.RunTarget(executionContext, targetName, timeoutSeconds)
	if runError != nil {
		return mcp.NewToolResultError(runError.Error()), nil
	}

	return mcp.NewToolResultText(standardOutput), nil
}
