package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 媒体领域 --------------------------

// MediaRef 标识一条媒体记录及其托管位置.
type MediaRef struct {
	ID       string `json:"id"`
	Filename string `json:"filename,omitempty"`
	// URL 伪装后的对外地址
	URL string `json:"url,omitempty"`
	// OriginalURL 外部托管直链
	OriginalURL string `json:"original_url,omitempty"`
	FileType    string `json:"file_type,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Category    string `json:"category,omitempty"`
}

// MediaStoredPayload 媒体登记完成.
type MediaStoredPayload struct {
	Media MediaRef `json:"media"`
	// Source 触发来源：register（登记直链）或 upload（代理上传）
	Source string `json:"source,omitempty"`
	// AlbumID 登记时加入的相册（若有）
	AlbumID string `json:"album_id,omitempty"`
}

// MediaUpdatedPayload 媒体元数据被编辑.
type MediaUpdatedPayload struct {
	Media MediaRef `json:"media"`
}

// MediaDeletedPayload 媒体被删除.
type MediaDeletedPayload struct {
	Media MediaRef `json:"media"`
	// RemoteDeleted 外部托管文件是否同步删除成功
	RemoteDeleted bool `json:"remote_deleted,omitempty"`
}

// MediaViewedPayload 浏览计数事件.
type MediaViewedPayload struct {
	MediaID string `json:"media_id"`
	// ViewCount 自增后的计数
	ViewCount int64  `json:"view_count"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// -------------------------- 相册领域 --------------------------

// AlbumRef 标识一个相册.
type AlbumRef struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	ShareCode string `json:"share_code,omitempty"`
}

// AlbumCreatedPayload 相册创建完成.
type AlbumCreatedPayload struct {
	Album AlbumRef `json:"album"`
	// InitialMediaCount 创建时一并加入的媒体数量
	InitialMediaCount int `json:"initial_media_count,omitempty"`
}

// AlbumUpdatedPayload 相册元数据被编辑.
type AlbumUpdatedPayload struct {
	Album AlbumRef `json:"album"`
}

// AlbumDeletedPayload 相册被删除.
type AlbumDeletedPayload struct {
	Album AlbumRef `json:"album"`
}

// AlbumLinkedPayload 相册成员变更.
type AlbumLinkedPayload struct {
	Album AlbumRef `json:"album"`
	// Action added|removed
	Action   string   `json:"action"`
	MediaIDs []string `json:"media_ids"`
	// Affected 实际生效的条数（加入时剔除已存在的）
	Affected int `json:"affected"`
}

// -------------------------- 浏览审计领域 --------------------------

// AuditPrunedPayload 过期浏览审计清理完成.
type AuditPrunedPayload struct {
	// Before 清理的时间边界，早于该时间的审计被删除
	Before time.Time `json:"before"`
	// Pruned 删除的条数
	Pruned int64 `json:"pruned"`
}
