package broker

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Broker 定義任務佇列使用的 Redis Stream 操作
// *redis.Client 直接實作此介面，測試時以 FakeBroker 替換
type Broker interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XAutoClaim(ctx context.Context, a *redis.XAutoClaimArgs) *redis.XAutoClaimCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type FakeBroker struct {
	XAddFn                 func(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XGroupCreateMkStreamFn func(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroupFn           func(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAckFn                 func(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XAutoClaimFn           func(ctx context.Context, a *redis.XAutoClaimArgs) *redis.XAutoClaimCmd
	PingFn                 func(ctx context.Context) *redis.StatusCmd
	CloseFn                func() error
}

func (f *FakeBroker) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	if f.XAddFn != nil {
		return f.XAddFn(ctx, a)
	}
	panic("unexpected XAdd")
}

func (f *FakeBroker) XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd {
	if f.XGroupCreateMkStreamFn != nil {
		return f.XGroupCreateMkStreamFn(ctx, stream, group, start)
	}
	panic("unexpected XGroupCreateMkStream")
}

func (f *FakeBroker) XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd {
	if f.XReadGroupFn != nil {
		return f.XReadGroupFn(ctx, a)
	}
	panic("unexpected XReadGroup")
}

func (f *FakeBroker) XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd {
	if f.XAckFn != nil {
		return f.XAckFn(ctx, stream, group, ids...)
	}
	panic("unexpected XAck")
}

func (f *FakeBroker) XAutoClaim(ctx context.Context, a *redis.XAutoClaimArgs) *redis.XAutoClaimCmd {
	if f.XAutoClaimFn != nil {
		return f.XAutoClaimFn(ctx, a)
	}
	panic("unexpected XAutoClaim")
}

func (f *FakeBroker) Ping(ctx context.Context) *redis.StatusCmd {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	panic("unexpected Ping")
}

// Close 執行 Fake 設定或 no-op
func (f *FakeBroker) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}
