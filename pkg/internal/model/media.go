package model

import (
	"time"
)

// 媒体类型取值.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// DefaultCategory 未分类媒体的占位分类.
const DefaultCategory = "uncategorized"

// Media 媒体模型：一条已托管在外部的媒体文件记录.
//
// OriginalURL 为外部托管直链，URL 为对外展示的伪装地址；删除为硬删除，
// 级联清理由 service 层在事务中完成.
type Media struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Filename string `gorm:"size:512;index"     json:"filename"`
	// OriginalURL 外部托管直链（如 catbox），仅内部使用
	OriginalURL string `gorm:"size:1024" json:"original_url"`
	// URL 对外展示的第一方伪装地址
	URL string `gorm:"size:1024" json:"url"`
	// FileType 取值 image 或 video
	FileType    string `gorm:"size:16;index"  json:"file_type"`
	ContentType string `gorm:"size:255"       json:"content_type"`
	FileSize    int64  `json:"file_size"`
	Title       string `gorm:"size:512"       json:"title"`
	Description string `gorm:"type:text"      json:"description"`
	Category    string `gorm:"size:128;index" json:"category"`
	// IsPublic 媒体直链对外可见；登记与上传默认公开
	IsPublic bool `gorm:"default:true" json:"is_public"`
	// ViewCount 只通过原子自增修改，避免读-改-写竞态
	ViewCount int64     `gorm:"default:0" json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 固定表名，避免不规则名词的自动复数化歧义.
func (Media) TableName() string { return "media" }

// MediaView 浏览审计行：每次浏览计数时尽力写入的一条遥测记录.
type MediaView struct {
	// ID 使用 ULID，天然按时间有序
	ID      string `gorm:"primaryKey;size:26" json:"id"`
	MediaID string `gorm:"size:36;index"      json:"media_id"`
	// ViewedAt 浏览发生时间，清理任务按此列判断过期
	ViewedAt  time.Time `gorm:"index"    json:"viewed_at"`
	IPAddress string    `gorm:"size:64"  json:"ip_address"`
	UserAgent string    `gorm:"size:512" json:"user_agent"`
}

// TableName 固定表名.
func (MediaView) TableName() string { return "media_views" }
