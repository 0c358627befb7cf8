package ses_test

import (
	"fmt"
	"testing"

	"github.com/aouyang1/go-forecastbench/ses"
)

func ExampleGridSearch() {
	train := []float64{10, 12, 14, 16}
	val := []float64{18, 20}

	res, err := ses.GridSearch(train, val, []float64{0.1, 0.5, 0.9})
	if err != nil {
		panic(err)
	}
	fmt.Printf("alpha: %.1f\n", res.Alpha)
	fmt.Printf("val rmse: %.4f\n", res.Score)
	fmt.Printf("forecast: %.3f\n", res.Forecast)
	// Output:
	// alpha: 0.9
	// val rmse: 3.3736
	// forecast: [15.778 15.778]
}

func ExampleForecastLast() {
	forecast, err := ses.ForecastLast([]float64{3, 5, 4}, 1.0, 3)
	if err != nil {
		panic(err)
	}
	fmt.Println(forecast)
	// Output:
	// [4 4 4]
}

func BenchmarkGridSearch(b *testing.B) {
	n := 500
	train := make([]float64, n)
	for i := range train {
		train[i] = float64(i%12) + 0.1*float64(i)
	}
	val := train[n-50:]
	train = train[:n-50]
	alphas := ses.DefaultAlphas()

	b.ResetTimer()
	for b.Loop() {
		if _, err := ses.GridSearch(train, val, alphas); err != nil {
			b.Fatal(err)
		}
	}
}
