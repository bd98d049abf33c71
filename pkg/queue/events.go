package queue

import (
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
)

// -------------------------- 基于业务封装 events --------------------------

// Publisher 事件发布的最小接口，mq.Client 满足该接口.
type Publisher interface {
	Publish(topic string, messages ...*message.Message) error
}

// PublishMediaStored 发布 mv.media.stored 事件.
func PublishMediaStored(pub Publisher, payload MediaStoredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMediaStored, "", payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaStored, msg)
}

// PublishMediaUpdated 发布 mv.media.updated 事件.
func PublishMediaUpdated(pub Publisher, payload MediaUpdatedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMediaUpdated, "", payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaUpdated, msg)
}

// PublishMediaDeleted 发布 mv.media.deleted 事件.
func PublishMediaDeleted(pub Publisher, payload MediaDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMediaDeleted, "", payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaDeleted, msg)
}

// PublishMediaViewed 发布 mv.media.viewed 事件.
// 消息 ID 为 media_id|view_count 的确定性哈希，重复投递可被去重.
func PublishMediaViewed(pub Publisher, payload MediaViewedPayload, opts ...func(*EventHeader)) error {
	id := DeterministicMessageID(TopicMediaViewed, payload.MediaID, strconv.FormatInt(payload.ViewCount, 10))

	msg, err := NewWatermillMessage(TopicMediaViewed, id, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaViewed, msg)
}

// PublishAlbumCreated 发布 mv.album.created 事件.
func PublishAlbumCreated(pub Publisher, payload AlbumCreatedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAlbumCreated, "", payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAlbumCreated, msg)
}

// PublishAlbumUpdated 发布 mv.album.updated 事件.
func PublishAlbumUpdated(pub Publisher, payload AlbumUpdatedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAlbumUpdated, "", payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAlbumUpdated, msg)
}

// PublishAlbumDeleted 发布 mv.album.deleted 事件.
func PublishAlbumDeleted(pub Publisher, payload AlbumDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAlbumDeleted, "", payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAlbumDeleted, msg)
}

// PublishAlbumLinked 发布 mv.album.linked 事件.
func PublishAlbumLinked(pub Publisher, payload AlbumLinkedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAlbumLinked, "", payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAlbumLinked, msg)
}

// PublishAuditPruned 发布 mv.audit.pruned 事件.
func PublishAuditPruned(pub Publisher, payload AuditPrunedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAuditPruned, "", payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAuditPruned, msg)
}

// ParseMediaStored 将 Watermill 消息解析为强类型 Envelope（MediaStoredPayload）.
func ParseMediaStored(msg *message.Message) (Message[MediaStoredPayload], error) {
	return ParseWatermillMessage[MediaStoredPayload](msg)
}

// ParseMediaViewed 将 Watermill 消息解析为强类型 Envelope（MediaViewedPayload）.
func ParseMediaViewed(msg *message.Message) (Message[MediaViewedPayload], error) {
	return ParseWatermillMessage[MediaViewedPayload](msg)
}
