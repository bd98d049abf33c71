package model

import (
	"time"
)

// Album 相册模型：一组媒体的聚合，通过 ShareCode 对外公开访问.
type Album struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"size:512"           json:"name"`
	Description string `gorm:"type:text"          json:"description"`
	// ShareCode 公开访问码，数据库唯一约束兜底并发生成的冲突
	ShareCode string `gorm:"size:64;uniqueIndex" json:"share_code"`
	// IsPublic 创建时默认私有，公开后分享码才对未认证访问生效
	IsPublic  bool      `gorm:"default:false" json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 固定表名.
func (Album) TableName() string { return "albums" }

// AlbumMedia 相册-媒体关联：同一媒体在同一相册中至多出现一次，
// OrderIndex 决定相册内展示顺序.
type AlbumMedia struct {
	ID      uint   `gorm:"primaryKey"                                json:"id"`
	AlbumID string `gorm:"size:36;index:idx_album_media,unique;index" json:"album_id"`
	MediaID string `gorm:"size:36;index:idx_album_media,unique;index" json:"media_id"`
	// OrderIndex 从 1 开始追加，新增成员取当前最大值 +1
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 固定表名.
func (AlbumMedia) TableName() string { return "album_media" }
