package service

import (
	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// 流式请求动作
const (
	ActionIdea     = "idea"
	ActionResearch = "research"
	ActionAsset    = "asset"
	ActionKit      = "kit"
)

// StreamReq websocket 客户端发来的运行请求
type StreamReq struct {
	// ID 客户端自定义，原样回填到该运行的所有推送中
	ID     string `json:"id,omitempty"`
	Action string `json:"action"`
	Query  string `json:"query,omitempty"`
	IdeaID string `json:"ideaId,omitempty"`
	Task   string `json:"task,omitempty"`
}

// 服务端推送的消息类型
const (
	FrameEvent  = "event"
	FrameResult = "result"
	FrameError  = "error"
)

// StreamFrame 服务端推送：若干 event，最后一条 result 或 error
type StreamFrame struct {
	ID     string       `json:"id,omitempty"`
	Type   string       `json:"type"`
	Event  any          `json:"event,omitempty"`
	Result any          `json:"result,omitempty"`
	Error  *StreamError `json:"error,omitempty"`
}

// StreamError 错误信息，code/reason 与 HTTP 接口一致
type StreamError struct {
	Code    int32  `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ErrorFrame 把运行错误转成与 HTTP 接口一致的错误帧
func (s *TrendService) ErrorFrame(err error) StreamFrame {
	e := kerrors.FromError(s.mapError(err))
	return StreamFrame{
		Type:  FrameError,
		Error: &StreamError{Code: e.Code, Reason: e.Reason, Message: e.Message},
	}
}
