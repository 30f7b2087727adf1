package cmd

import (
	"github.com/etnz/dca"
	"github.com/etnz/dca/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// predictTickers completes with the tickers of the data folder.
var predictTickers = complete.PredictFunc(func(prefix string) []string {
	tickers, err := OpenStore().Tickers()
	if err != nil {
		return nil
	}
	return tickers
})

// predictTopics completes with the documentation topics.
var predictTopics = complete.PredictFunc(func(prefix string) []string {
	topics, _ := docs.GetAllTopics()
	return topics
})

// predictMarkets completes with the market selectors.
var predictMarkets = complete.PredictFunc(func(prefix string) []string {
	markets := make([]string, len(dca.Markets))
	for i, m := range dca.Markets {
		markets[i] = m.String()
	}
	return markets
})

var predictPeriods = predict.Set{
	"daily", "weekly", "monthly", "quarterly", "yearly",
	"1d", "1wk", "1mo", "3mo", "1y",
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"data": predict.Dirs("*"),
		},
		Sub: map[string]*complete.Command{
			"simulate": {Flags: map[string]complete.Predictor{
				"t":    predictTickers,
				"m":    predictMarkets,
				"a":    predict.Nothing,
				"from": predict.Nothing,
				"to":   predict.Nothing,
				"p":    predictPeriods,
				"json": predict.Nothing,
			}},
			"compare": {Flags: map[string]complete.Predictor{
				"t1":   predictTickers,
				"m1":   predictMarkets,
				"t2":   predictTickers,
				"m2":   predictMarkets,
				"from": predict.Nothing,
				"to":   predict.Nothing,
				"json": predict.Nothing,
			}},
			"import": {
				Flags: map[string]complete.Predictor{
					"t":      predict.Nothing,
					"m":      predictMarkets,
					"c":      predict.Nothing,
					"format": predict.Set{"json", "csv"},
				},
				Args: predict.Or(predict.Files("*.json"), predict.Files("*.csv")),
			},
			"tickers": {},
			"serve": {Flags: map[string]complete.Predictor{
				"addr":   predict.Nothing,
				"static": predict.Dirs("*"),
			}},
			"topic":    {Args: predictTopics},
			"help":     {Args: predict.Set{"simulate", "compare", "import", "tickers", "serve", "topic"}},
			"flags":    {},
			"commands": {},
		},
	}
}

// Complete runs shell completion and exits, when the shell asks for it.
// It returns immediately otherwise.
func Complete(name string) { completion().Complete(name) }
