package handler

import (
	"context"

	"github.com/ogurasousui/workcard-admin/internal/core/business"
	"google.golang.org/protobuf/types/known/structpb"
)

// BusinessGrpcHandler は BusinessService の gRPC 実装です。
type BusinessGrpcHandler struct {
	svc business.UseCase
}

// NewBusinessGrpcHandler は BusinessGrpcHandler を生成します。
func NewBusinessGrpcHandler(svc business.UseCase) *BusinessGrpcHandler {
	return &BusinessGrpcHandler{svc: svc}
}

// CreateBusiness は事業者を作成します。
func (h *BusinessGrpcHandler) CreateBusiness(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	name, err := stringField(req, "name")
	if err != nil {
		return nil, err
	}
	code, err := stringField(req, "code")
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateBusiness(ctx, business.CreateBusinessInput{Name: name, Code: code})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(map[string]any{"business": businessFields(created)})
}

// GetBusiness は事業者を取得します。
func (h *BusinessGrpcHandler) GetBusiness(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	id, err := stringField(req, "id")
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetBusiness(ctx, id)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(map[string]any{"business": businessFields(found)})
}

// ListBusinesses は事業者一覧を返します。
func (h *BusinessGrpcHandler) ListBusinesses(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	pageSize, err := intField(req, "page_size")
	if err != nil {
		return nil, err
	}
	pageToken, err := stringField(req, "page_token")
	if err != nil {
		return nil, err
	}
	rawStatus, err := optionalStringField(req, "status")
	if err != nil {
		return nil, err
	}

	in := business.ListBusinessesInput{PageSize: pageSize, PageToken: pageToken}
	if rawStatus != nil {
		st := business.Status(*rawStatus)
		in.Status = &st
	}

	result, err := h.svc.ListBusinesses(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(result.Businesses))
	for _, b := range result.Businesses {
		items = append(items, businessFields(b))
	}
	return newStruct(map[string]any{
		"businesses":      items,
		"next_page_token": result.NextPageToken,
	})
}

// UpdateBusiness は事業者を部分更新します。
func (h *BusinessGrpcHandler) UpdateBusiness(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	id, err := stringField(req, "id")
	if err != nil {
		return nil, err
	}
	name, err := optionalStringField(req, "name")
	if err != nil {
		return nil, err
	}
	code, err := optionalStringField(req, "code")
	if err != nil {
		return nil, err
	}
	rawStatus, err := optionalStringField(req, "status")
	if err != nil {
		return nil, err
	}

	in := business.UpdateBusinessInput{ID: id, Name: name, Code: code}
	if rawStatus != nil {
		st := business.Status(*rawStatus)
		in.Status = &st
	}

	updated, err := h.svc.UpdateBusiness(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(map[string]any{"business": businessFields(updated)})
}

// CreateSite は事業者に拠点を追加します。
func (h *BusinessGrpcHandler) CreateSite(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	businessID, err := stringField(req, "business_id")
	if err != nil {
		return nil, err
	}
	name, err := stringField(req, "name")
	if err != nil {
		return nil, err
	}

	site, err := h.svc.CreateSite(ctx, business.CreateSiteInput{BusinessID: businessID, Name: name})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(map[string]any{"site": siteFields(site)})
}

// ListSites は事業者の拠点一覧を返します。
func (h *BusinessGrpcHandler) ListSites(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}
	businessID, err := stringField(req, "business_id")
	if err != nil {
		return nil, err
	}

	sites, err := h.svc.ListSites(ctx, businessID)
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(sites))
	for _, site := range sites {
		items = append(items, siteFields(site))
	}
	return newStruct(map[string]any{"sites": items})
}

func businessFields(b *business.Business) map[string]any {
	return map[string]any{
		"id":         b.ID,
		"name":       b.Name,
		"code":       b.Code,
		"status":     string(b.Status),
		"created_at": formatTimestamp(b.CreatedAt),
		"updated_at": formatTimestamp(b.UpdatedAt),
	}
}

func siteFields(s *business.Site) map[string]any {
	return map[string]any{
		"id":          s.ID,
		"business_id": s.BusinessID,
		"name":        s.Name,
		"created_at":  formatTimestamp(s.CreatedAt),
		"updated_at":  formatTimestamp(s.UpdatedAt),
	}
}
