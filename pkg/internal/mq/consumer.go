// Package mq 提供生命周期事件的进程内消费者.
//
// 服务自身发布的 mv.* 事件在这里被消费并落为结构化日志，
// 便于在没有外部订阅方时也能追溯媒体与相册的变更轨迹.
package mq

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"

	"github.com/yeisme/mediavault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/queue"
)

// auditTopics 事件审计消费者订阅的主题.
var auditTopics = []string{
	queue.TopicMediaStored,
	queue.TopicMediaUpdated,
	queue.TopicMediaDeleted,
	queue.TopicMediaViewed,
	queue.TopicAlbumCreated,
	queue.TopicAlbumUpdated,
	queue.TopicAlbumDeleted,
	queue.TopicAlbumLinked,
	queue.TopicAuditPruned,
}

// StartEventLogger 为每个生命周期主题启动一个消费协程，将事件落为
// 结构化日志. 订阅通道随 ctx 取消关闭后协程退出；MQ 未启用时为 no-op.
func StartEventLogger(ctx context.Context, client *mq.Client) error {
	if client == nil {
		return nil
	}

	for _, topic := range auditTopics {
		ch, err := client.Subscribe(ctx, topic)
		if err != nil {
			return err
		}

		go consumeTopic(topic, ch)
	}

	nlog.Logger().Info().Int("topics", len(auditTopics)).Msg("event logger consumers started")

	return nil
}

func consumeTopic(topic string, ch <-chan *message.Message) {
	l := nlog.Logger().With().Str("topic", topic).Logger()

	for msg := range ch {
		// 只解事件头做概要日志，负载原样透传
		var env queue.Message[json.RawMessage]
		if err := sonic.Unmarshal(msg.Payload, &env); err != nil {
			l.Warn().Err(err).Str("message_id", msg.UUID).Msg("malformed lifecycle event")
			msg.Ack()

			continue
		}

		l.Info().
			Str("message_id", msg.UUID).
			Str("producer", env.Header.Producer).
			Time("occurred_at", env.Header.OccurredAt).
			RawJSON("payload", env.Payload).
			Msg("lifecycle event")
		msg.Ack()
	}
}
