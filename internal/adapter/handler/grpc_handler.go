package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/core/service"
)

type GRPCHandler struct {
	UnimplementedOwnershipServer
	ownership OwnershipAPI
	logger    *slog.Logger
}

func NewGRPCHandler(ownership OwnershipAPI, logger *slog.Logger) *GRPCHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GRPCHandler{ownership: ownership, logger: logger}
}

// ResolveOwnership expects chain_id, game_client and public_address.
func (h *GRPCHandler) ResolveOwnership(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	network, err := domain.ParseNetwork(stringField(req, "chain_id"))
	if err != nil {
		return nil, h.toStatus(err)
	}
	collection, err := domain.ParseCollection(stringField(req, "game_client"))
	if err != nil {
		return nil, h.toStatus(err)
	}

	report, err := h.ownership.ResolveOwnership(ctx, stringField(req, "public_address"), collection, network)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return toStruct(report)
}

// Metadata expects chain_id, game_client and nft_id.
func (h *GRPCHandler) Metadata(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	network, err := domain.ParseNetwork(stringField(req, "chain_id"))
	if err != nil {
		return nil, h.toStatus(err)
	}
	collection, err := domain.ParseCollection(stringField(req, "game_client"))
	if err != nil {
		return nil, h.toStatus(err)
	}
	id, err := domain.ParseCatalogID(stringField(req, "nft_id"))
	if err != nil {
		return nil, h.toStatus(err)
	}

	metadata, err := h.ownership.Metadata(ctx, collection, network, id)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return toStruct(metadata)
}

func (h *GRPCHandler) toStatus(err error) error {
	if IsInvalidInput(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, service.ErrMetadataUnavailable) {
		h.logger.Error("grpc request failed", "error", err)
		return status.Error(codes.Unavailable, "metadata unavailable")
	}
	h.logger.Error("grpc request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

// stringField reads a field given either as a string or a number.
func stringField(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	}
	return ""
}

// toStruct converts a JSON-tagged value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	return out, nil
}
