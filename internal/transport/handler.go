package transport

import (
	"context"
	"log/slog"

	"github.com/JamesPrial/relation-graph-core/internal/relations"
	apperrors "github.com/JamesPrial/relation-graph-core/pkg/errors"
	"github.com/JamesPrial/relation-graph-core/pkg/graph"
	"github.com/JamesPrial/relation-graph-core/pkg/logging"
	"github.com/mitchellh/mapstructure"
)

// JSON-RPC method names exposed by the relation service
const (
	MethodCheck          = "relations/check"
	MethodSave           = "relations/save"
	MethodDelete         = "relations/delete"
	MethodDeleteEntity   = "relations/deleteEntity"
	MethodFindByFrom     = "relations/findByFrom"
	MethodFindByFromType = "relations/findByFromAndType"
	MethodFindByTo       = "relations/findByTo"
	MethodFindByToType   = "relations/findByToAndType"
	MethodFindByQuery    = "relations/findByQuery"
)

// Handler dispatches JSON-RPC requests to the relation service
type Handler struct {
	service *relations.Service
	logger  *slog.Logger
}

// NewHandler creates a Handler backed by the given relation service
func NewHandler(service *relations.Service) *Handler {
	return &Handler{
		service: service,
		logger:  logging.GetGlobalLogger("transport.handler"),
	}
}

// keyParams carries relation endpoints and an optional relation type.
// Lookup methods use the subset of fields they need.
type keyParams struct {
	From         graph.EntityID `mapstructure:"from"`
	To           graph.EntityID `mapstructure:"to"`
	RelationType string         `mapstructure:"relationType"`
}

// entityParams identifies a single entity
type entityParams struct {
	Entity graph.EntityID `mapstructure:"entity"`
}

// HandleRequest routes a JSON-RPC request to the matching service operation
func (h *Handler) HandleRequest(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	if req.JSONRPC != "2.0" {
		return NewInvalidRequestError(req.ID, "jsonrpc must be '2.0'")
	}

	h.logger.DebugContext(ctx, "Dispatching request",
		slog.String("method", req.Method),
	)

	var result interface{}
	var err error

	switch req.Method {
	case MethodCheck:
		result, err = h.handleCheck(ctx, req.Params)
	case MethodSave:
		result, err = h.handleSave(ctx, req.Params)
	case MethodDelete:
		result, err = h.handleDelete(ctx, req.Params)
	case MethodDeleteEntity:
		result, err = h.handleDeleteEntity(ctx, req.Params)
	case MethodFindByFrom:
		result, err = h.handleFindByFrom(ctx, req.Params)
	case MethodFindByFromType:
		result, err = h.handleFindByFromAndType(ctx, req.Params)
	case MethodFindByTo:
		result, err = h.handleFindByTo(ctx, req.Params)
	case MethodFindByToType:
		result, err = h.handleFindByToAndType(ctx, req.Params)
	case MethodFindByQuery:
		result, err = h.handleFindByQuery(ctx, req.Params)
	default:
		return NewMethodNotFoundError(req.ID, req.Method)
	}

	if err != nil {
		h.logger.WarnContext(ctx, "Request failed",
			slog.String("method", req.Method),
			slog.String("error", LoggableError(err).Error()),
		)
		return ToJSONRPCResponse(req.ID, err)
	}

	return NewResult(req.ID, result)
}

func (h *Handler) handleCheck(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	var p keyParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	exists, err := h.service.CheckRelation(ctx, p.From, p.To, p.RelationType)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"exists": exists}, nil
}

func (h *Handler) handleSave(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	var relation graph.Relation
	if err := decodeParams(params, &relation); err != nil {
		return nil, err
	}
	saved, err := h.service.SaveRelation(ctx, relation)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"saved": saved}, nil
}

func (h *Handler) handleDelete(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	var p keyParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	deleted, err := h.service.DeleteRelationByKey(ctx, p.From, p.To, p.RelationType)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"deleted": deleted}, nil
}

func (h *Handler) handleDeleteEntity(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	var p entityParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	deleted, err := h.service.DeleteEntityRelations(ctx, p.Entity)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"deleted": deleted}, nil
}

func (h *Handler) handleFindByFrom(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	var p keyParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return h.service.FindByFrom(ctx, p.From)
}

func (h *Handler) handleFindByFromAndType(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	var p keyParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return h.service.FindByFromAndType(ctx, p.From, p.RelationType)
}

func (h *Handler) handleFindByTo(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	var p keyParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return h.service.FindByTo(ctx, p.To)
}

func (h *Handler) handleFindByToAndType(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	var p keyParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return h.service.FindByToAndType(ctx, p.To, p.RelationType)
}

func (h *Handler) handleFindByQuery(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	var query graph.RelationsQuery
	if err := decodeParams(params, &query); err != nil {
		return nil, err
	}
	return h.service.FindByQuery(ctx, query)
}

// decodeParams converts the raw params map into a typed request structure
func decodeParams(params map[string]interface{}, out interface{}) error {
	if params == nil {
		return apperrors.New(apperrors.ErrCodeTransportInvalidParams, "params are required")
	}
	if err := mapstructure.Decode(params, out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeTransportInvalidParams, "failed to decode params")
	}
	return nil
}
