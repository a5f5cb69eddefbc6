package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/temirov/makemcp/internal/makefiles"
)

const (
	resourceRegisteredMessageConstant = "resource registered"
	logFieldResourceURIConstant       = "resource_uri"
)

// registerResources asks the catalog which resources exist and registers a
// read handler for each. The catalog re-validates paths on every read, so a
// Makefile edited after startup is served with its current content.
func (protocolServer *Server) registerResources(executionContext context.Context) {
	for _, resourceDescriptor := range protocolServer.catalog.ListResources(executionContext) {
		protocolServer.mcpServer.AddResource(
			mcp.NewResource(
				resourceDescriptor.URI,
				resourceDescriptor.Name,
				mcp.WithResourceDescription(resourceDescriptor.Description),
				mcp.WithMIMEType(resourceDescriptor.MIMEType),
			),
			protocolServer.resourceReadHandler(resourceDescriptor),
		)

		protocolServer.logger.Debug(
			resourceRegisteredMessageConstant,
			zap.String(logFieldResourceURIConstant, resourceDescriptor.URI),
		)
	}
}

func (protocolServer *Server) resourceReadHandler(resourceDescriptor makefiles.ResourceDescriptor) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(executionContext context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		resourceContent, readError := protocolServer.catalog.ReadResource(executionContext, request.Params.URI)
		if readError != nil {
			return nil, readError
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: resourceDescriptor.MIMEType,
				Text:     resourceContent,
			},
		}, nil
	}
}
