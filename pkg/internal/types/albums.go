package types

import "time"

// AlbumInfo 相册的公开信息.
type AlbumInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// ShareCode 公开访问码，分享链接中使用
	ShareCode string `json:"share_code"`
	// IsPublic 为 false 时分享码对未认证访问不可用
	IsPublic bool `json:"is_public"`
	// MediaCount 相册内媒体数量（列表接口聚合返回）
	MediaCount int64 `json:"media_count"`
	// CoverURL 封面地址（相册内 order_index 最小的媒体，已伪装）
	CoverURL  string    `json:"cover_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AlbumMediaInfo 相册内的媒体项，附带展示顺序.
type AlbumMediaInfo struct {
	MediaInfo

	OrderIndex int `json:"order_index"`
}

// CreateAlbumRequest 创建相册.
type CreateAlbumRequest struct {
	Name        string `json:"name" rule:"required,min=1,max=512"`
	Description string `json:"description,omitempty"`
	// MediaIDs 可选；创建后立即加入的媒体
	MediaIDs []string `json:"media_ids,omitempty"`
}

// UpdateAlbumRequest 编辑相册，整体替换语义：每次提交完整字段，
// 省略 description 即清空，is_public 以提交值为准.
type UpdateAlbumRequest struct {
	Name        string `json:"name" rule:"required,min=1,max=512"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"is_public"`
}

// ListAlbumsResponse 相册列表响应.
type ListAlbumsResponse struct {
	Total  int64       `json:"total"`
	Albums []AlbumInfo `json:"albums"`
}

// AlbumDetailResponse 相册详情响应，媒体按 order_index 升序.
type AlbumDetailResponse struct {
	Album AlbumInfo        `json:"album"`
	Media []AlbumMediaInfo `json:"media"`
}

// AddAlbumMediaRequest 批量向相册加入媒体.
type AddAlbumMediaRequest struct {
	MediaIDs []string `json:"media_ids" rule:"required,min=1,dive,required"`
}

// AddAlbumMediaResponse 加入结果；已存在的关联按幂等跳过.
type AddAlbumMediaResponse struct {
	// Requested 请求加入的条数
	Requested int `json:"requested"`
	// AddedCount 实际新建关联的条数（不含已存在的）
	AddedCount int `json:"added_count"`
}

// RemoveAlbumMediaRequest 批量从相册移除媒体.
type RemoveAlbumMediaRequest struct {
	MediaIDs []string `json:"media_ids" rule:"required,min=1,dive,required"`
}

// RemoveAlbumMediaResponse 移除结果.
type RemoveAlbumMediaResponse struct {
	RemovedCount int `json:"removed_count"`
}
