// Package types 定义应用程序中使用的各种数据类型和结构体. 主要为 Request 和 Response 结构体.
package types

import "time"

// MediaInfo 媒体的公开信息，URL 始终为伪装后的第一方地址.
type MediaInfo struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	// URL 对外展示地址（已伪装）
	URL         string `json:"url"`
	FileType    string `json:"file_type"` // image|video
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	IsPublic    bool   `json:"is_public"`
	ViewCount   int64  `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateMediaRequest 登记一条已托管媒体.
type CreateMediaRequest struct {
	// URL 外部托管直链或第一方地址，登记时统一伪装
	URL string `json:"url" rule:"required,url"`
	// Filename 可选；缺省时从 URL 提取
	Filename string `json:"filename,omitempty"`
	// ContentType 可选；缺省时 HEAD 探测，失败则按扩展名推断
	ContentType string `json:"content_type,omitempty"`
	// FileSize 可选；缺省时 HEAD 探测
	FileSize    int64  `json:"file_size,omitempty" rule:"omitempty,gte=0"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	// Category 为空时落为 uncategorized
	Category string `json:"category,omitempty"`
	// AlbumID 可选；登记成功后尝试加入该相册
	AlbumID string `json:"album_id,omitempty"`
}

// CreateMediaResponse 登记媒体的响应.
type CreateMediaResponse struct {
	Media MediaInfo `json:"media"`
	// AlbumWarning 非空表示媒体已登记成功但加入相册失败
	AlbumWarning string `json:"album_warning,omitempty"`
}

// UpdateMediaRequest 编辑媒体元数据；指针字段为 nil 表示不修改.
type UpdateMediaRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	// Category 显式清空（空字符串）时落为 uncategorized
	Category *string `json:"category,omitempty"`
}

// ListMediaRequest 媒体列表查询参数.
type ListMediaRequest struct {
	// Category 分类过滤；uncategorized 匹配未分类
	Category string `form:"category" json:"category,omitempty"`
	// FileType 过滤 image|video
	FileType string `form:"file_type" json:"file_type,omitempty" rule:"omitempty,oneof=image video"`
	// Search 在文件名、标题、描述中进行不区分大小写的 LIKE 匹配
	Search string `form:"search" json:"search,omitempty"`
	// 分页，Page 从 1 开始
	Page     int `form:"page"      json:"page,omitempty"      rule:"omitempty,min=1"`
	PageSize int `form:"page_size" json:"page_size,omitempty" rule:"omitempty,min=1,max=200"`
	// 排序字段：created_at|view_count|filename，默认 created_at desc
	SortBy    string `form:"sort_by"    json:"sort_by,omitempty"    rule:"omitempty,oneof=created_at view_count filename"`
	SortOrder string `form:"sort_order" json:"sort_order,omitempty" rule:"omitempty,oneof=asc desc"`
}

// ListMediaResponse 媒体列表响应.
type ListMediaResponse struct {
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Media []MediaInfo `json:"media"`
}

// RecordViewResponse 浏览计数响应，返回自增后的计数.
type RecordViewResponse struct {
	ID        string `json:"id"`
	ViewCount int64  `json:"view_count"`
}

// DeleteAllMediaResponse 清空媒体库的响应.
type DeleteAllMediaResponse struct {
	// DeletedCount 实际删除成功的条数（尽力而为，部分失败不中断）
	DeletedCount int `json:"deleted_count"`
	// FailedCount 删除失败的条数
	FailedCount int `json:"failed_count,omitempty"`
}
