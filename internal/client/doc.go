// Package client 提供 quiz.Session 的 HTTP Transport，供前端驱动程序和集成测试调用答题接口。
package client
