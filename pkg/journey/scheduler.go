package journey

import "sort"

// TimerHandle 一次性定时器的句柄，0 为无效句柄
type TimerHandle uint64

// Scheduler 帧驱动的一次性定时器队列
//
// 所有延迟回调（接近事件去抖、延迟显露）都经由它调度，
// 由外部每帧调用 Advance(dt) 推进——不依赖墙钟，
// 因此测试中可以精确快进，Reset 时也能确定性地清空全部回调。
// 单协程使用，不做加锁。
type Scheduler struct {
	nextHandle TimerHandle
	timers     map[TimerHandle]*pendingTimer

	// scheduledTotal 累计调度次数，供测试验证"不重复调度/无泄漏"
	scheduledTotal int
}

type pendingTimer struct {
	remaining float64
	callback  func()
}

// NewScheduler 创建空的定时器队列
func NewScheduler() *Scheduler {
	return &Scheduler{
		nextHandle: 1,
		timers:     make(map[TimerHandle]*pendingTimer),
	}
}

// Schedule 注册一个 delay 秒后触发的一次性回调，返回可取消的句柄
func (s *Scheduler) Schedule(delay float64, callback func()) TimerHandle {
	h := s.nextHandle
	s.nextHandle++
	s.timers[h] = &pendingTimer{remaining: delay, callback: callback}
	s.scheduledTotal++
	return h
}

// Cancel 取消指定定时器；句柄无效或已触发时是空操作
func (s *Scheduler) Cancel(h TimerHandle) {
	delete(s.timers, h)
}

// CancelAll 取消所有未触发的定时器
func (s *Scheduler) CancelAll() {
	clear(s.timers)
}

// Pending 指定定时器是否仍在等待触发
func (s *Scheduler) Pending(h TimerHandle) bool {
	_, ok := s.timers[h]
	return ok
}

// PendingCount 当前等待触发的定时器数量
func (s *Scheduler) PendingCount() int {
	return len(s.timers)
}

// ScheduledTotal 自创建以来的累计调度次数
func (s *Scheduler) ScheduledTotal() int {
	return s.scheduledTotal
}

// Advance 推进 dt 秒，触发所有到期的回调
//
// 到期定时器先统一从队列移除、再按句柄顺序执行回调，
// 因此回调内可以安全地调度新定时器或取消其他定时器。
func (s *Scheduler) Advance(dt float64) {
	var due []TimerHandle
	for h, t := range s.timers {
		t.remaining -= dt
		if t.remaining <= 0 {
			due = append(due, h)
		}
	}
	if len(due) == 0 {
		return
	}

	// 按句柄升序触发，保证同帧到期的回调顺序确定
	sort.Slice(due, func(i, j int) bool { return due[i] < due[j] })

	callbacks := make([]func(), 0, len(due))
	for _, h := range due {
		callbacks = append(callbacks, s.timers[h].callback)
		delete(s.timers, h)
	}
	for _, cb := range callbacks {
		cb()
	}
}
