// verify_calc 是评估模型的命令行验证程序
//
// 对给定档案计算单次评估与逐年预测，打印损耗漏斗和累计活产
// 概率表。用于快速核对模型输出而无需启动图形界面。
//
// 用法:
//
//	go run ./cmd/verify_calc -age 34 -amh 2.1 -bmi 22
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/silverdavi/rheal-lab/pkg/calc"
)

var (
	age  = flag.Float64("age", 34, "年龄（岁）")
	amh  = flag.Float64("amh", 0, "AMH 检验值（ng/ml），0 表示按年龄取典型值")
	bmi  = flag.Float64("bmi", 22, "身体质量指数")
	pcos = flag.Bool("pcos", false, "是否诊断多囊卵巢综合征")
)

func main() {
	flag.Parse()

	in := calc.Input{
		Age: *age,
		Amh: *amh,
		Bmi: *bmi,
	}
	if in.Amh <= 0 {
		in.Amh = calc.NormalAmh(in.Age)
	}
	if *pcos {
		in.Conditions = append(in.Conditions, calc.ConditionPCOS)
	}

	projection := calc.ComputeProjection(in)
	if len(projection) == 0 {
		log.Fatalf("预测结果为空")
	}

	now := projection[0]
	fmt.Printf("档案: 年龄 %d, AMH %.2f ng/ml, BMI %.1f\n\n", now.Age, in.Amh, in.Bmi)

	fmt.Println("损耗漏斗（本年度单周期）:")
	a := now.Attrition
	fmt.Printf("  取卵 %d -> 冷冻 %d -> 解冻 %d -> 受精 %d -> 优质胚胎 %d -> 移植 %d -> 活产 %d\n\n",
		a.Retrieved, a.Frozen, a.Thawed, a.Fertilized, a.GoodEmbryos, a.Implanted, a.Livebirth)

	fmt.Println("累计活产概率（按周期数）:")
	for i, round := range now.Births {
		fmt.Printf("  周期 %d: 至少一次 %d%%, 至少两次 %d%%\n", i+1, round.AtLeastOne, round.AtLeastTwo)
	}

	fmt.Println("\n逐年预测（单周期取卵数与三周期至少一次活产概率）:")
	for _, r := range projection {
		three := r.Births[len(r.Births)-1]
		fmt.Printf("  年龄 %d: 取卵 %d, 活产 %d%%\n", r.Age, r.Attrition.Retrieved, three.AtLeastOne)
	}
}
