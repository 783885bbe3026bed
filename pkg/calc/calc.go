// Package calc 实现生育力评估计算
// 园区咨询室到达后调用，输出取卵、冷冻与活产的预估数据
package calc

import "math"

const (
	// AgeMin 模型支持的最小年龄
	AgeMin = 20.0
	// AgeMax 模型支持的最大年龄
	AgeMax = 45.0
	// BmiMin 模型支持的最小 BMI
	BmiMin = 15.0
	// BmiMax 模型支持的最大 BMI
	BmiMax = 45.0
	// RoundsMax 评估覆盖的取卵周期数
	RoundsMax = 3
	// NgMlToPmolL AMH 单位换算系数：1 ng/ml = 7.18 pmol/l
	NgMlToPmolL = 7.18
)

// AgeProjection 评估结果的年龄外推偏移（当前年龄加若干年）
var AgeProjection = []int{0, 1, 3, 5, 7}

// Ethnicity 族裔（影响活产率修正因子）
type Ethnicity int

const (
	EthnicityWhite Ethnicity = iota
	EthnicityAsian
	EthnicityBlack
	EthnicityOther
)

// Condition 不孕相关诊断（影响取卵数与活产率修正因子）
type Condition int

const (
	ConditionEndometriosis Condition = iota
	ConditionPCOS
	ConditionTubal
	ConditionUnexplained
)

// AmhUnit AMH 检验值的计量单位
type AmhUnit int

const (
	AmhNanoGramsPerMilliLitre AmhUnit = iota
	AmhPicoMolesPerLitre
)

// ethnicityFactors 族裔活产率修正因子，未列出的族裔为 1.0
var ethnicityFactors = map[Ethnicity]float64{
	EthnicityAsian: 0.82,
	EthnicityBlack: 0.8,
	EthnicityOther: 0.85,
}

// conditionFactorsEggs 诊断对取卵数的修正因子
var conditionFactorsEggs = map[Condition]float64{
	ConditionEndometriosis: 0.9,
	ConditionPCOS:          1.2,
}

// conditionFactorsBirth 诊断对活产率的修正因子
var conditionFactorsBirth = map[Condition]float64{
	ConditionEndometriosis: 0.8,
}

// paramsBmi BMI 修正因子的四次多项式系数（降幂排列）
var paramsBmi = []float64{-4.439e-06, 0.0005938, -0.02932, 0.6203, -3.744}

// amhPercentiles 按年龄分桶（偶数岁）的 AMH 百分位表，
// 每行从高百分位到低百分位递减
var amhPercentiles = map[int][]float64{
	20: {9.78, 6.72, 5.22, 4.27, 3.60, 3.08, 2.67, 2.33, 2.04, 1.79, 1.58, 1.38, 1.21, 1.05, 0.90, 0.75, 0.62, 0.48, 0.33},
	22: {8.26, 5.68, 4.41, 3.61, 3.04, 2.60, 2.26, 1.97, 1.73, 1.52, 1.33, 1.17, 1.02, 0.88, 0.76, 0.64, 0.52, 0.40, 0.28},
	24: {6.85, 4.71, 3.66, 2.99, 2.52, 2.16, 1.87, 1.63, 1.43, 1.26, 1.10, 0.97, 0.85, 0.73, 0.63, 0.53, 0.43, 0.34, 0.23},
	26: {5.77, 3.96, 3.08, 2.52, 2.12, 1.82, 1.57, 1.37, 1.20, 1.06, 0.93, 0.81, 0.71, 0.62, 0.53, 0.44, 0.36, 0.28, 0.19},
	28: {4.96, 3.41, 2.65, 2.17, 1.82, 1.56, 1.35, 1.18, 1.04, 0.91, 0.80, 0.70, 0.61, 0.53, 0.45, 0.38, 0.31, 0.24, 0.17},
	30: {4.38, 3.02, 2.34, 1.92, 1.61, 1.38, 1.20, 1.04, 0.92, 0.80, 0.71, 0.62, 0.54, 0.47, 0.40, 0.34, 0.28, 0.21, 0.15},
	32: {4.02, 2.76, 2.15, 1.76, 1.48, 1.27, 1.10, 0.96, 0.84, 0.74, 0.65, 0.57, 0.50, 0.43, 0.37, 0.31, 0.25, 0.20, 0.14},
	34: {3.73, 2.56, 1.99, 1.63, 1.37, 1.18, 1.02, 0.89, 0.78, 0.68, 0.60, 0.53, 0.46, 0.40, 0.34, 0.29, 0.24, 0.18, 0.13},
	36: {3.28, 2.26, 1.75, 1.43, 1.21, 1.03, 0.90, 0.78, 0.69, 0.60, 0.53, 0.46, 0.41, 0.35, 0.30, 0.25, 0.21, 0.16, 0.11},
	38: {2.56, 1.76, 1.37, 1.12, 0.94, 0.81, 0.70, 0.61, 0.54, 0.47, 0.41, 0.36, 0.32, 0.27, 0.23, 0.20, 0.16, 0.13, 0.09},
	40: {1.70, 1.17, 0.91, 0.74, 0.63, 0.54, 0.46, 0.41, 0.36, 0.31, 0.27, 0.24, 0.21, 0.18, 0.16, 0.13, 0.11, 0.08, 0.06},
	42: {1.00, 0.69, 0.53, 0.44, 0.37, 0.31, 0.27, 0.24, 0.21, 0.18, 0.16, 0.14, 0.12, 0.11, 0.09, 0.08, 0.06, 0.05, 0.03},
	44: {0.54, 0.37, 0.29, 0.24, 0.20, 0.17, 0.15, 0.13, 0.11, 0.10, 0.09, 0.08, 0.07, 0.06, 0.05, 0.04, 0.03, 0.03, 0.02},
}

// attritionStage 损耗漏斗的单个阶段
type attritionStage struct {
	name string
	// rates 按年龄锚点给出的 (低, 高) 比率区间，
	// 空表的阶段（retrieved、livebirth）不参与插值
	rates map[int][2]float64
}

// attritionStages 损耗漏斗各阶段与其年龄锚点比率，顺序固定
var attritionStages = []attritionStage{
	{name: "retrieved"},
	{name: "frozen", rates: map[int][2]float64{
		30: {0.75, 0.8},
		35: {0.65, 0.7},
		40: {0.45, 0.5},
		45: {0.20, 0.25},
	}},
	{name: "thawed", rates: map[int][2]float64{
		30: {0.85, 0.9},
		35: {0.8, 0.85},
		40: {0.7, 0.75},
		45: {0.55, 0.6},
	}},
	{name: "fertilized", rates: map[int][2]float64{
		30: {0.75, 0.8},
		35: {0.65, 0.7},
		40: {0.55, 0.6},
		45: {0.45, 0.5},
	}},
	{name: "good_embryos", rates: map[int][2]float64{
		30: {0.45, 0.5},
		35: {0.35, 0.4},
		40: {0.2, 0.25},
		45: {0.1, 0.125},
	}},
	{name: "implanted", rates: map[int][2]float64{
		30: {0.55, 0.6},
		35: {0.45, 0.5},
		40: {0.35, 0.4},
		45: {0.25, 0.275},
	}},
	{name: "livebirth"},
}

// attritionAnchors 各阶段共用的年龄锚点（升序）
var attritionAnchors = []int{30, 35, 40, 45}

// Input 单次评估的患者输入
type Input struct {
	// Age 年龄（岁）
	Age float64
	// Amh AMH 检验值（ng/ml），未检验时填 NormalAmh(Age)
	Amh float64
	// Bmi 身体质量指数
	Bmi float64
	// Ethnicity 族裔列表（可为空）
	Ethnicity []Ethnicity
	// Conditions 诊断列表（可为空）
	Conditions []Condition
	// LeftAfc / RightAfc 双侧窦卵泡计数
	LeftAfc  int
	RightAfc int
	// HasAfc 是否提供了窦卵泡计数
	HasAfc bool
}

// RoundOutcome 第 n 个周期后的累计概率（取整百分比）
type RoundOutcome struct {
	// AtLeastOne 至少一次活产的概率
	AtLeastOne int
	// AtLeastTwo 至少两次活产的概率
	AtLeastTwo int
}

// Attrition 损耗漏斗各阶段的预估数量（向上取整）
type Attrition struct {
	Retrieved   int
	Frozen      int
	Thawed      int
	Fertilized  int
	GoodEmbryos int
	Implanted   int
	Livebirth   int
}

// AttritionPoint 损耗漏斗图的单阶段坐标（左、中、右三点）
type AttritionPoint struct {
	Stage  string
	Left   float64
	Middle float64
	Right  float64
}

// Results 单次评估的完整输出
type Results struct {
	// Age 输入年龄（未裁剪，取整）
	Age int
	// Births 每个周期的累计活产概率
	Births []RoundOutcome
	// Eggs 每个周期的累计取卵数
	Eggs []int
	// Attrition 损耗漏斗数量
	Attrition Attrition
	// AttritionGraph 损耗漏斗图坐标
	AttritionGraph []AttritionPoint
}

// Sigmoid 四参数 S 型曲线：a + (b-a) / (1 + exp(-(x-c)*d))
func Sigmoid(x, a, b, c, d float64) float64 {
	return a + (b-a)/(1+math.Exp(-(x-c)*d))
}

// Gompertz AMH 比值对取卵数的增益曲线
func Gompertz(x float64) float64 {
	const (
		a = 0.9
		k = 4.52
		t = 0.8
		s = 0.4
	)
	return a*math.Exp(-math.Exp(-k*(x-t))) + s
}

// AmhDecline AMH 随年龄的年均下降速率（ng/ml/年，负值）
func AmhDecline(age float64) float64 {
	z := (age - 30.57) / 12.36
	return -0.02205 * math.Exp(-z*z)
}

// NormalAmh 指定年龄的 AMH 典型值（ng/ml）
func NormalAmh(age float64) float64 {
	return Sigmoid(age, 4.6, -0.12, 30.5, 0.17)
}

// BmiFactor BMI 对活产率的修正因子（多项式拟合）
func BmiFactor(bmi float64) float64 {
	return polyval(paramsBmi, bmi)
}

// NgMlFromPmolL 将 pmol/l 的 AMH 值换算为 ng/ml
func NgMlFromPmolL(v float64) float64 {
	return v / NgMlToPmolL
}

// polyval 按降幂系数求多项式值（霍纳法）
func polyval(coeffs []float64, x float64) float64 {
	y := 0.0
	for _, c := range coeffs {
		y = y*x + c
	}
	return y
}

// clip 把 x 限制到 [lo, hi]
func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// oocytesByAgeOld 旧模型：单周期取卵数随年龄的曲线
func oocytesByAgeOld(age float64) float64 {
	return Sigmoid(age, 22, 2, 38, 0.41)
}

// oocytesByAgeNew 新模型：单周期取卵数随年龄的曲线
func oocytesByAgeNew(age float64) float64 {
	return Sigmoid(age, -1.4, 22, 37, -0.13)
}

// lbrByAge 单卵活产率随年龄的曲线
func lbrByAge(age float64) float64 {
	return Sigmoid(age, 13, 1.5, 33, 0.5) / 100
}

// clbrByAge 单周期累计活产率随年龄的曲线
func clbrByAge(age float64) float64 {
	return 1 - math.Pow(1-lbrByAge(age), oocytesByAgeOld(age))
}

// FixAmhDiff 用年均下降速率把 AMH 值从 oldAge 外推到 newAge
func FixAmhDiff(oldAmh, oldAge, newAge float64) float64 {
	return oldAmh + AmhDecline(0.5*(newAge+oldAge))*(newAge-oldAge)
}

// FixAmhPercentile 用百分位表把 AMH 值从 oldAge 外推到 newAge：
// 找到旧年龄桶中该值落入的百分位，取新年龄桶同百分位的值按比例缩放
func FixAmhPercentile(oldAmh, oldAge, newAge float64) float64 {
	if newAge == oldAge {
		return oldAmh
	}
	oldList := amhPercentiles[ageBracket(oldAge)]
	idx := 0
	for idx+1 < len(oldList) && oldAmh < oldList[idx] {
		idx++
	}
	factor := oldAmh / oldList[idx]
	return factor * amhPercentiles[ageBracket(newAge)][idx]
}

// ageBracket 把年龄裁剪到模型范围并向下对齐到偶数岁
func ageBracket(age float64) int {
	age = clip(age, AgeMin, AgeMax)
	return int(age - math.Mod(age, 2))
}

// meanEthnicityFactor 族裔修正因子取均值，空列表为 1.0
func meanEthnicityFactor(ethnicity []Ethnicity) float64 {
	if len(ethnicity) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, e := range ethnicity {
		f, ok := ethnicityFactors[e]
		if !ok {
			f = 1.0
		}
		sum += f
	}
	return sum / float64(len(ethnicity))
}

// prodConditionFactor 诊断修正因子取乘积，空列表为 1.0
func prodConditionFactor(conditions []Condition, factors map[Condition]float64) float64 {
	prod := 1.0
	for _, c := range conditions {
		if f, ok := factors[c]; ok {
			prod *= f
		}
	}
	return prod
}

func hasCondition(conditions []Condition, target Condition) bool {
	for _, c := range conditions {
		if c == target {
			return true
		}
	}
	return false
}

// attritionRate 指定阶段在指定年龄的通过率：
// 锚点上取区间均值，锚点之间线性插值，范围之外取端点
func attritionRate(age float64, stage string) float64 {
	var rates map[int][2]float64
	for _, s := range attritionStages {
		if s.name == stage {
			rates = s.rates
			break
		}
	}
	if rates == nil {
		return 1.0
	}

	mean := func(anchor int) float64 {
		r := rates[anchor]
		return (r[0] + r[1]) / 2
	}

	first := attritionAnchors[0]
	last := attritionAnchors[len(attritionAnchors)-1]
	if age <= float64(first) {
		return mean(first)
	}
	if age >= float64(last) {
		return mean(last)
	}

	lo, hi := first, last
	for i := 0; i+1 < len(attritionAnchors); i++ {
		lo, hi = attritionAnchors[i], attritionAnchors[i+1]
		if age < float64(hi) {
			break
		}
	}
	ratio := (age - float64(lo)) / float64(hi-lo)
	return mean(lo) + ratio*(mean(hi)-mean(lo))
}

// BabiesCycles 计算 1..RoundsMax 个周期后的累计活产概率
// p1 是单周期至少一次活产的概率，eggs 是单周期取卵数
func BabiesCycles(p1 float64, eggs int) []RoundOutcome {
	var p2 float64
	if eggs > 0 {
		a := math.Pow(1-p1, 1/float64(eggs))
		p2 = 1 - (1-p1)*(1+float64(eggs)*(1-a)/a)
	}
	outcomes := make([]RoundOutcome, 0, RoundsMax)
	for n := 1; n <= RoundsMax; n++ {
		fn := float64(n)
		pn1 := 1 - math.Pow(1-p1, fn)
		pn2 := pn1 - fn*math.Pow(1-p1, fn-1)*(p1-p2)
		outcomes = append(outcomes, RoundOutcome{
			AtLeastOne: prettify(pn1),
			AtLeastTwo: prettify(pn2),
		})
	}
	return outcomes
}

// prettify 概率转取整百分比
func prettify(prob float64) int {
	return int(math.Round(prob * 100))
}

// ComputeResults 执行单次生育力评估
//
// 流程：年龄与 BMI 裁剪到模型范围 → 逐周期预估累计取卵数
// （AMH 外推 + Gompertz 增益）→ 活产概率（年龄基线乘 BMI、
// 族裔、诊断修正）→ 损耗漏斗（冷冻到活产逐级衰减）
func ComputeResults(in Input) *Results {
	age0 := in.Age
	age := clip(in.Age, AgeMin, AgeMax)
	bmi := clip(in.Bmi, BmiMin, BmiMax)

	// 取卵数
	healthFactorEggs := prodConditionFactor(in.Conditions, conditionFactorsEggs)
	eggsNormal := int(math.Floor(oocytesByAgeOld(age) * healthFactorEggs))
	if eggsNormal < 1 {
		eggsNormal = 1
	}
	eggs := make([]int, 0, RoundsMax)
	eggsTot := 0
	for i := 0; i < RoundsMax; i++ {
		ageI := clip(age+float64(i), AgeMin, AgeMax)
		eggsI := oocytesByAgeNew(ageI) * healthFactorEggs
		fixedAmh := FixAmhDiff(in.Amh, age, ageI)
		eggsI *= Gompertz(fixedAmh / NormalAmh(ageI))
		eggsTot += int(math.Floor(eggsI))
		eggs = append(eggs, eggsTot)
	}

	// 活产概率
	ethnicityFactor := meanEthnicityFactor(in.Ethnicity)
	birthFactor := prodConditionFactor(in.Conditions, conditionFactorsBirth)
	clbr := clbrByAge(age)
	clbr *= BmiFactor(bmi)
	clbr *= ethnicityFactor
	clbr *= birthFactor
	lbr := 1 - math.Pow(1-clbr, 1/float64(eggsNormal))
	clbr = 1 - math.Pow(1-lbr, float64(eggs[0]))
	births := BabiesCycles(clbr, eggs[0])

	// 冷冻数：提供窦卵泡计数时结合卵巢反应预测指数 (ORPI) 加权
	retrieved := float64(eggs[0])
	frozen := retrieved
	if in.HasAfc {
		afc := float64(in.LeftAfc + in.RightAfc)
		orpi := in.Amh * afc / age
		if hasCondition(in.Conditions, ConditionPCOS) {
			frozen = 0.65*retrieved + 0.35*orpi*0.9
		} else {
			frozen = 0.65*retrieved + 0.35*orpi
		}
	}

	// 损耗漏斗
	thawed := frozen * attritionRate(age, "thawed")
	fertilized := thawed * attritionRate(age, "fertilized")
	goodEmbryos := fertilized * attritionRate(age, "good_embryos")
	implanted := goodEmbryos * attritionRate(age, "implanted")
	implanted *= BmiFactor(bmi)
	implanted *= ethnicityFactor
	implanted *= birthFactor
	livebirth := implanted * 0.8

	attrition := Attrition{
		Retrieved:   eggs[0],
		Frozen:      int(math.Ceil(frozen)),
		Thawed:      int(math.Ceil(thawed)),
		Fertilized:  int(math.Ceil(fertilized)),
		GoodEmbryos: int(math.Ceil(goodEmbryos)),
		Implanted:   int(math.Ceil(implanted)),
		Livebirth:   int(math.Ceil(livebirth)),
	}

	return &Results{
		Age:            int(math.Round(age0)),
		Births:         births,
		Eggs:           eggs,
		Attrition:      attrition,
		AttritionGraph: attritionPoints(attrition),
	}
}

// ComputeProjection 按年龄外推偏移逐年评估
// 未来年份的 AMH 用年均下降速率从当前值外推
func ComputeProjection(in Input) []*Results {
	results := make([]*Results, 0, len(AgeProjection))
	for _, extra := range AgeProjection {
		proj := in
		proj.Age = in.Age + float64(extra)
		proj.Amh = FixAmhDiff(in.Amh, in.Age, proj.Age)
		results = append(results, ComputeResults(proj))
	}
	return results
}

// attritionPoints 生成损耗漏斗图坐标：
// 每阶段左值取自身数量，右值取下一阶段数量，中点略微上抬
func attritionPoints(a Attrition) []AttritionPoint {
	counts := []float64{
		float64(a.Retrieved),
		float64(a.Frozen),
		float64(a.Thawed),
		float64(a.Fertilized),
		float64(a.GoodEmbryos),
		float64(a.Implanted),
		float64(a.Livebirth),
	}
	points := make([]AttritionPoint, 0, len(attritionStages))
	for i, stage := range attritionStages {
		left := counts[i]
		var right float64
		if i+1 < len(counts) {
			right = counts[i+1]
		} else {
			right = left * 0.9
		}
		middle := (left+right)/2 + math.Min(0.075*(left-right), 0.25)
		points = append(points, AttritionPoint{
			Stage:  stage.name,
			Left:   round1(left),
			Middle: round1(middle),
			Right:  round1(right),
		})
	}
	return points
}

// round1 保留一位小数
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
