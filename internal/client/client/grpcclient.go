package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	pb "github.com/dmitrijs2005/notekeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.AccountServiceClient
	accessToken string
	timeout     time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the configured token and bounds every call
// by the request timeout.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL, accessToken string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken, timeout: timeout}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewAccountServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &structpb.Struct{})
	if err != nil {
		return s.mapError(err)
	}

	if str(resp, "status") != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) KeyParams(ctx context.Context, email string, extended bool) (map[string]any, error) {
	req, err := structpb.NewStruct(map[string]any{"email": email, "extended": extended})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.KeyParams(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.AsMap(), nil
}

func (s *GRPCClient) Profile(ctx context.Context) (*models.Profile, error) {
	resp, err := s.client.Profile(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.Profile{UUID: str(resp, "uuid"), Email: str(resp, "email")}, nil
}

func (s *GRPCClient) CreateItem(ctx context.Context, content, contentType string) (string, error) {
	req, err := structpb.NewStruct(map[string]any{"content": content, "content_type": contentType})
	if err != nil {
		return "", err
	}

	resp, err := s.client.CreateItem(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}
	return str(resp, "uuid"), nil
}

func (s *GRPCClient) DataSize(ctx context.Context) (*models.DataSize, error) {
	resp, err := s.client.DataSize(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.DataSize{Label: str(resp, "size"), Bytes: int64(num(resp, "bytes"))}, nil
}

func (s *GRPCClient) ItemsBySize(ctx context.Context) ([]models.ItemInfo, error) {
	resp, err := s.client.ItemsBySize(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}

	list := resp.GetFields()["items"].GetListValue().GetValues()
	items := make([]models.ItemInfo, 0, len(list))
	for _, v := range list {
		row := v.GetStructValue()
		if row == nil {
			return nil, fmt.Errorf("%w: item is %T", ErrBadResponse, v.GetKind())
		}
		items = append(items, models.ItemInfo{
			UUID:        str(row, "uuid"),
			ContentType: str(row, "content_type"),
			Size:        int64(num(row, "size")),
		})
	}
	return items, nil
}

func (s *GRPCClient) DataSignature(ctx context.Context) (string, error) {
	resp, err := s.client.DataSignature(ctx, &structpb.Struct{})
	if err != nil {
		return "", s.mapError(err)
	}
	return str(resp, "signature"), nil
}

func (s *GRPCClient) DownloadBackup(ctx context.Context) (string, error) {
	resp, err := s.client.DownloadBackup(ctx, &structpb.Struct{})
	if err != nil {
		return "", s.mapError(err)
	}
	location := str(resp, "location")
	if location == "" {
		return "", fmt.Errorf("%w: empty backup location", ErrBadResponse)
	}
	return location, nil
}

func (s *GRPCClient) DisableMFA(ctx context.Context) (bool, error) {
	resp, err := s.client.DisableMFA(ctx, &structpb.Struct{})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.GetFields()["disabled"].GetBoolValue(), nil
}

func (s *GRPCClient) DisableEmailBackups(ctx context.Context) (bool, error) {
	resp, err := s.client.DisableEmailBackups(ctx, &structpb.Struct{})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.GetFields()["disabled"].GetBoolValue(), nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", common.ErrUnsupportedSchemeVersion, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func str(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func num(s *structpb.Struct, key string) float64 {
	return s.GetFields()[key].GetNumberValue()
}
