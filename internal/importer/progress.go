package importer

// 流程阶段
const (
	StageLoad         = "load"
	StageUnify        = "unify"
	StagePrice        = "price"
	StageProject      = "project"
	StageExportJSON   = "export_json"
	StageExportClient = "export_client"
	StageDone         = "done"
)

// ProgressEvent 流程进度事件
type ProgressEvent struct {
	Percent int
	Stage   string
}

func reportProgress(progress func(ProgressEvent), percent int, stage string) {
	if progress == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{
		Percent: percent,
		Stage:   stage,
	})
}
