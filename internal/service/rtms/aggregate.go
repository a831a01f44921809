package rtms

import (
	"context"
	"log/slog"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/kapu/rtms-price-go/internal/constants"
	"github.com/kapu/rtms-price-go/internal/domain"
	"github.com/kapu/rtms-price-go/internal/util"
)

// Aggregator: 기간 조회. (상품 x 월) 조합을 병렬로 조회해 하나의 결과로 병합한다.
// 월 단위 실패는 전체를 중단시키지 않고 월별 메타데이터로 보고된다.
type Aggregator struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewAggregator: Aggregator를 생성한다.
func NewAggregator(fetcher *Fetcher, logger *slog.Logger) *Aggregator {
	return &Aggregator{fetcher: fetcher, logger: logger}
}

// RangeQuery: 기간 조회 요청
type RangeQuery struct {
	Code     domain.AdministrativeCode
	End      domain.YearMonth
	Months   int
	Products []domain.ProductType
}

type rangeTask struct {
	product domain.ProductType
	ym      domain.YearMonth
}

// FetchRange: 종료 월부터 과거 Months개월의 실거래를 조회해 병합한다.
// 결과 레코드는 거래일 내림차순으로 정렬된다.
func (a *Aggregator) FetchRange(ctx context.Context, q RangeQuery) *domain.RangeResult {
	months := util.Max(1, util.Min(q.Months, constants.AggregatorConfig.MaxMonthsBack))
	products := q.Products
	if len(products) == 0 {
		products = []domain.ProductType{domain.ProductApt, domain.ProductOffi}
	}

	tasks := make([]rangeTask, 0, months*len(products))
	for _, ym := range domain.MonthsBack(q.End, months) {
		for _, product := range products {
			tasks = append(tasks, rangeTask{product: product, ym: ym})
		}
	}

	type taskResult struct {
		outcome *domain.FetchOutcome
		err     error
	}
	results := make([]taskResult, len(tasks))

	p := pool.New().WithMaxGoroutines(constants.AggregatorConfig.WorkerCount)
	for i, task := range tasks {
		i, task := i, task
		p.Go(func() {
			outcome, err := a.fetcher.Fetch(ctx, task.product, q.Code, task.ym)
			results[i] = taskResult{outcome: outcome, err: err}
		})
	}
	p.Wait()

	// 병합은 과제 순서(월 내림차순, 상품 순)대로 수행해 결정적이다
	result := &domain.RangeResult{Attempted: len(tasks)}
	for i, task := range tasks {
		mo := domain.MonthOutcome{
			YearMonth: task.ym.Format(),
			Product:   task.product,
		}

		if err := results[i].err; err != nil {
			mo.Error = err.Error()
			result.LastError = err.Error()
		} else {
			outcome := results[i].outcome
			mo.Count = len(outcome.Records)
			result.Records = append(result.Records, outcome.Records...)
			result.Succeeded++
		}

		result.Outcomes = append(result.Outcomes, mo)
	}

	sort.SliceStable(result.Records, func(i, j int) bool {
		return result.Records[i].DealDate().After(result.Records[j].DealDate())
	})

	a.logger.Info("Range fetch complete",
		slog.String("county", q.Code.County()),
		slog.String("end", q.End.Format()),
		slog.Int("months", months),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("attempted", result.Attempted),
		slog.Int("records", len(result.Records)),
	)

	return result
}

// FetchRangeAutoExpand: 조회 결과가 비어있으면 창을 단계적으로 넓혀 재조회한다.
// 재귀가 아닌 고정 단계 순회라 종료가 보장되고, 이미 조회한 월은 캐시에서 바로 온다.
// 실제 사용된 창 크기(개월)를 함께 반환한다.
func (a *Aggregator) FetchRangeAutoExpand(ctx context.Context, q RangeQuery) (*domain.RangeResult, int) {
	months := util.Max(1, util.Min(q.Months, constants.AggregatorConfig.MaxMonthsBack))
	q.Months = months

	result := a.FetchRange(ctx, q)
	if len(result.Records) > 0 {
		return result, months
	}

	for _, step := range constants.AggregatorConfig.ExpandSteps {
		if step <= months {
			continue
		}

		a.logger.Info("Empty result, expanding window",
			slog.Int("from_months", months),
			slog.Int("to_months", step),
		)

		months = step
		q.Months = step
		result = a.FetchRange(ctx, q)
		if len(result.Records) > 0 {
			break
		}
	}

	return result, months
}
