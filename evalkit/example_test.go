package evalkit_test

import (
	"fmt"

	"github.com/vantorre/dtlink/evalkit"
)

// ExampleEvaluator_Eval ranks one positive score against three
// negatives. The positive beats two of them and ties none, so its
// rank is 2 and the reciprocal rank 0.5.
func ExampleEvaluator_Eval() {
	ev, err := evalkit.New(evalkit.MetricMRR)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	mrr, err := ev.Eval(0.8, []float64{0.9, 0.3, 0.1})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("%.2f\n", mrr)
	// Output:
	// 0.50
}
