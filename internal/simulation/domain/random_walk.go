package domain

import "github.com/shopspring/decimal"

// Rand 随机源抽象，测试中注入固定序列
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// floorPrice 价格下限，随机漫步产生的价格不会低于该值
var floorPrice = decimal.NewFromInt(1)

// maxSwing 单步最大波动系数，波动率均匀分布在 (-maxSwing/2, +maxSwing/2)
const maxSwing = 0.1

// RandomWalk 随机漫步：决定每轮更新的条数、选取的对象与新价格
type RandomWalk struct {
	rng Rand
}

// NewRandomWalk 创建随机漫步生成器
func NewRandomWalk(rng Rand) *RandomWalk {
	return &RandomWalk{rng: rng}
}

// PickCount 返回本轮更新的条数，均匀分布在 [1, n/2+1]；n 不足时返回 0
func (w *RandomWalk) PickCount(n int) int {
	if n <= 0 {
		return 0
	}
	return max(1, w.rng.IntN(n/2+1)+1)
}

// PickIndex 等概率选取目录下标，有放回抽样由调用方循环实现
func (w *RandomWalk) PickIndex(n int) int {
	return w.rng.IntN(n)
}

// NextPrice 基于当前价生成新价：±5% 内均匀波动，
// 四舍五入保留两位小数，结果不低于 1.00。
func (w *RandomWalk) NextPrice(current decimal.Decimal) decimal.Decimal {
	delta := (w.rng.Float64() - 0.5) * maxSwing
	change := current.Mul(decimal.NewFromFloat(delta))
	next := current.Add(change).Round(2)
	if next.LessThan(floorPrice) {
		return floorPrice
	}
	return next
}
