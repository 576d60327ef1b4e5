// Package quiz 是答题交互核心：答案比较、各题型判题、连线题面板、生命值与反馈、
// 关卡卡片跳转、雷达图数据和整卷未答检查。
//
// 服务端只用其中的判题、跳转与图表部分；Session、MatchBoard 以及 CardPress/ButtonPress
// 等点击动效常量供前端或 Go 测试驱动的答题页使用，不依赖任何 UI 框架。
package quiz
