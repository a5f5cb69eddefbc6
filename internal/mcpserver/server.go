package mcpserver

import (
	"context"
	"errors"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/temirov/makemcp/internal/makefiles"
)

const (
	serverNameConstant    = "mcp-server-make"
	serverVersionConstant = "0.1.0"

	loggerNotConfiguredMessageConstant           = "logger not configured"
	catalogNotConfiguredMessageConstant          = "resource catalog not configured"
	executionManagerNotConfiguredMessageConstant = "execution manager not configured"
)

// ErrLoggerNotConfigured indicates the server was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCatalogNotConfigured indicates the server was constructed without a resource catalog.
var ErrCatalogNotConfigured = errors.New(catalogNotConfiguredMessageConstant)

// ErrExecutionManagerNotConfigured indicates the server was constructed without an execution manager.
var ErrExecutionManagerNotConfigured = errors.New(executionManagerNotConfiguredMessageConstant)

// TargetRunner represents the ability to run a make target and return its output.
type TargetRunner interface {
	RunTarget(executionContext context.Context, targetName string, timeoutSeconds int) (string, error)
}

// ResourceCatalog represents the Makefile-derived resources offered to clients.
type ResourceCatalog interface {
	ListResources(executionContext context.Context) []makefiles.ResourceDescriptor
	ParseTargets(executionContext context.Context) ([]makefiles.Target, error)
	ReadResource(executionContext context.Context, resourceURI string) (string, error)
}

// ServerConfiguration carries the settings for the protocol server.
type ServerConfiguration struct {
	DefaultTimeoutSeconds int
}

// ServerDependencies enumerates collaborators required by the server.
type ServerDependencies struct {
	Logger           *zap.Logger
	Catalog          ResourceCatalog
	ExecutionManager TargetRunner
}

// Server bridges the Model Context Protocol to the Makefile catalog and the
// execution manager.
type Server struct {
	configuration ServerConfiguration
	logger        *zap.Logger
	catalog       ResourceCatalog
	runner        TargetRunner
	mcpServer     *server.MCPServer
}

// NewServer validates the dependencies, registers the tool and resource
// surface, and constructs a Server instance.
func NewServer(configuration ServerConfiguration, dependencies ServerDependencies) (*Server, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.Catalog == nil {
		return nil, ErrCatalogNotConfigured
	}
	if dependencies.ExecutionManager == nil {
		return nil, ErrExecutionManagerNotConfigured
	}

	protocolServer := &Server{
		configuration: configuration,
		logger:        dependencies.Logger,
		catalog:       dependencies.Catalog,
		runner:        dependencies.ExecutionManager,
		mcpServer: server.NewMCPServer(
			serverNameConstant,
			serverVersionConstant,
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, true),
			server.WithRecovery(),
		),
	}

	protocolServer.registerTools()
	protocolServer.registerResources(context.Background())

	return protocolServer, nil
}

// ServeStdio serves the protocol over standard input and output until the
// supplied context is cancelled. Protocol transport errors are routed to the
// structured logger.
func (protocolServer *Server) ServeStdio(executionContext context.Context) error {
	stdioServer := server.NewStdioServer(protocolServer.mcpServer)
	stdioServer.SetErrorLogger(zap.NewStdLog(protocolServer.logger))
	return stdioServer.Listen(executionContext, os.Stdin, os.Stdout)
}
