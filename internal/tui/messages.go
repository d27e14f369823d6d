package tui

import "github.com/iksnae/sitechat/internal/app"

type replyMsg struct {
	reply *app.Reply
}

type errMsg struct {
	err error
}

type previewOpenedMsg struct {
	err error
}
