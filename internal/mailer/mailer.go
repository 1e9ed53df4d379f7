// Package mailer 封装外部邮件投递能力。
// 调度侧只依赖 Mailer 接口，具体服务商各自实现一份。
package mailer

import "context"

// Message 单个收件人的已渲染邮件
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer 外部投递能力，失败以 error 表达
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
