package model

import (
	"fmt"
	"time"
)

// Task 生成任务类型
type Task string

const (
	TaskPrimaryIdea    Task = "primary_idea"
	TaskResearchReport Task = "research_report"
	TaskBrandIdentity  Task = "brand_identity"
	TaskLandingPage    Task = "landing_page"
	TaskMVPSpec        Task = "mvp_spec"
	TaskAdCreatives    Task = "ad_creatives"
)

// Tasks 全部已知任务，顺序即展示顺序
var Tasks = []Task{
	TaskPrimaryIdea,
	TaskResearchReport,
	TaskBrandIdentity,
	TaskLandingPage,
	TaskMVPSpec,
	TaskAdCreatives,
}

// SubAssetTasks 基于已生成创意派生的子资产任务
var SubAssetTasks = []Task{
	TaskBrandIdentity,
	TaskLandingPage,
	TaskMVPSpec,
	TaskAdCreatives,
}

// IsSubAsset 是否为子资产任务（无检索阶段）
func (t Task) IsSubAsset() bool {
	switch t {
	case TaskBrandIdentity, TaskLandingPage, TaskMVPSpec, TaskAdCreatives:
		return true
	}
	return false
}

// ParseTask 解析任务名
func ParseTask(s string) (Task, error) {
	for _, t := range Tasks {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown task %q", s)
}

// Meta 生成元数据，由编排器在归一化成功后写入
type Meta struct {
	ID          string    `json:"id,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
	Date        string    `json:"date,omitempty"`
	IsSimulated bool      `json:"isSimulated"`
	Provider    string    `json:"provider,omitempty"`
	Sector      string    `json:"sector,omitempty"`
	Sources     []Source  `json:"sources,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// Source 检索阶段引用的来源
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Report 所有任务结果的公共接口
type Report interface {
	Task() Task
	Metadata() *Meta
}

// Stamp 写入元数据
func (m *Meta) Stamp(meta Meta) { *m = meta }

// Metadata 返回元数据指针
func (m *Meta) Metadata() *Meta { return m }

// New 返回指定任务的空结果，用于解码
func New(task Task) Report {
	switch task {
	case TaskPrimaryIdea:
		return &BusinessIdea{}
	case TaskResearchReport:
		return &ResearchReport{}
	case TaskBrandIdentity:
		return &BrandIdentity{}
	case TaskLandingPage:
		return &LandingPage{}
	case TaskMVPSpec:
		return &MVPSpec{}
	case TaskAdCreatives:
		return &AdCreatives{}
	}
	panic(fmt.Sprintf("model: no report type for task %q", task))
}
