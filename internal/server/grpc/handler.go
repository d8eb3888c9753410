package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.reply(ctx, map[string]any{"status": "OK"})
}

func (s *GRPCServer) KeyParams(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email := strings.TrimSpace(field(req, "email").GetStringValue())
	if email == "" {
		return nil, status.Error(codes.InvalidArgument, "email is required")
	}
	extended := field(req, "extended").GetBoolValue()

	params, err := s.services.Accounts.KeyParams(ctx, email, extended)
	if err != nil {
		return nil, s.fail(ctx, "key params", err)
	}

	return s.reply(ctx, params)
}

func (s *GRPCServer) Profile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userUUID, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.services.Accounts.Profile(ctx, userUUID)
	if err != nil {
		return nil, s.fail(ctx, "profile", err)
	}

	return s.reply(ctx, map[string]any{"uuid": u.UUID, "email": u.Email})
}

func (s *GRPCServer) CreateItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userUUID, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	contentType := field(req, "content_type").GetStringValue()
	if contentType == "" {
		return nil, status.Error(codes.InvalidArgument, "content_type is required")
	}

	item, err := s.services.Data.CreateItem(ctx, userUUID, field(req, "content").GetStringValue(), contentType)
	if err != nil {
		return nil, s.fail(ctx, "create item", err)
	}

	return s.reply(ctx, map[string]any{"uuid": item.UUID})
}

func (s *GRPCServer) DataSize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userUUID, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	label, bytes, err := s.services.Data.TotalDataSize(ctx, userUUID)
	if err != nil {
		return nil, s.fail(ctx, "data size", err)
	}

	return s.reply(ctx, map[string]any{"size": label, "bytes": bytes})
}

func (s *GRPCServer) ItemsBySize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userUUID, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Data.ItemsBySize(ctx, userUUID)
	if err != nil {
		return nil, s.fail(ctx, "items by size", err)
	}

	list := make([]any, 0, len(items))
	for _, it := range items {
		list = append(list, map[string]any{
			"uuid":         it.UUID,
			"content":      it.Content,
			"content_type": it.ContentType,
			"size":         it.Size(),
		})
	}

	return s.reply(ctx, map[string]any{"items": list})
}

func (s *GRPCServer) DataSignature(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userUUID, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sig, err := s.services.Integrity.ComputeDataSignature(ctx, userUUID)
	if err != nil {
		return nil, s.fail(ctx, "data signature", err)
	}

	return s.reply(ctx, map[string]any{"signature": sig})
}

func (s *GRPCServer) DownloadBackup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userUUID, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	location, err := s.services.Backups.DownloadBackup(ctx, userUUID)
	if err != nil {
		return nil, s.fail(ctx, "download backup", err)
	}

	return s.reply(ctx, map[string]any{"location": location})
}

func (s *GRPCServer) DisableMFA(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.disable(ctx, "disable mfa", s.services.Features.DisableMFA)
}

func (s *GRPCServer) DisableEmailBackups(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.disable(ctx, "disable email backups", s.services.Features.DisableEmailBackups)
}

func (s *GRPCServer) disable(ctx context.Context, op string, fn func(context.Context, string) (bool, error)) (*structpb.Struct, error) {
	userUUID, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	disabled, err := fn(ctx, userUUID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	return s.reply(ctx, map[string]any{"disabled": disabled})
}

func field(req *structpb.Struct, name string) *structpb.Value {
	return req.GetFields()[name]
}

func (s *GRPCServer) reply(ctx context.Context, m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		s.logger.Error(ctx, "encoding response", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, op+" failed", "error", err)
	}
	return st
}
