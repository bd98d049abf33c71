// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：mv.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：media(媒体记录)、album(相册)、audit(浏览审计)
// 动作：存储相关(stored/updated/deleted)、访问相关(viewed)、维护相关(pruned)

const (
	// 媒体领域.
	TopicMediaStored  = "mv.media.stored"  // 媒体登记完成（含代理上传转存后的登记）
	TopicMediaUpdated = "mv.media.updated" // 媒体元数据被编辑
	TopicMediaDeleted = "mv.media.deleted" // 媒体被删除（含关联与审计的级联清理）
	TopicMediaViewed  = "mv.media.viewed"  // 媒体浏览计数 +1

	// 相册领域.
	TopicAlbumCreated = "mv.album.created" // 相册创建完成（分享码已生成）
	TopicAlbumUpdated = "mv.album.updated" // 相册元数据被编辑
	TopicAlbumDeleted = "mv.album.deleted" // 相册被删除（媒体本体保留）
	TopicAlbumLinked  = "mv.album.linked"  // 相册成员变更（加入或移除媒体）

	// 浏览审计领域.
	TopicAuditPruned = "mv.audit.pruned" // 过期浏览审计清理完成
)
