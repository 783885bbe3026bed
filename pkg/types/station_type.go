package types

// StationType 定义园区建筑对应的诊疗站点类型
type StationType int

const (
	// StationUnknown 未知站点类型
	StationUnknown StationType = iota
	// StationReception 接待处
	StationReception
	// StationConsult 咨询室（出具生育力评估结果）
	StationConsult
	// StationLab 化验室
	StationLab
	// StationCryo 冷冻储存库
	StationCryo
	// StationGarden 花园（装饰建筑，不触发诊疗流程）
	StationGarden
)

// String 返回站点类型的字符串表示
func (s StationType) String() string {
	switch s {
	case StationReception:
		return "Reception"
	case StationConsult:
		return "Consult"
	case StationLab:
		return "Lab"
	case StationCryo:
		return "Cryo"
	case StationGarden:
		return "Garden"
	default:
		return "Unknown"
	}
}

// ParseStationType 从配置字符串解析站点类型
// 未识别的字符串返回 StationUnknown，由配置校验负责报错
func ParseStationType(s string) StationType {
	switch s {
	case "reception":
		return StationReception
	case "consult":
		return StationConsult
	case "lab":
		return StationLab
	case "cryo":
		return StationCryo
	case "garden":
		return StationGarden
	default:
		return StationUnknown
	}
}
