package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/storage"
)

// SelectRequest is the SELECT statement driver's input: the
// participating tables, the predicate, and the projection list. An
// empty projection list means "raw record dump of each table in order".
type SelectRequest struct {
	Tables      []string
	Where       *expression.Node
	Projections []*expression.Node
}

// Select runs the SELECT statement driver, writing CSV to out.
func (e *Engine) Select(req SelectRequest, out io.Writer) error {
	if len(req.Tables) == 0 {
		return errors.New("select requires at least one table")
	}

	isAgg := false
	for _, p := range req.Projections {
		if expression.IsAggregate(p) {
			isAgg = true
			break
		}
	}

	if isAgg {
		if len(req.Projections) != 1 || !expression.IsAggregate(req.Projections[0]) {
			return errors.Wrap(ErrNotSingleAggExpr, "")
		}
		return e.selectAggregate(req, out)
	}
	return e.selectScalar(req, out)
}

func (e *Engine) openRequestTables(names []string) (map[string]*storage.Table, error) {
	tables := make(map[string]*storage.Table, len(names))
	for _, name := range names {
		tbl, err := e.openTable(name)
		if err != nil {
			return nil, err
		}
		tables[name] = tbl
	}
	return tables, nil
}

func (e *Engine) selectScalar(req SelectRequest, out io.Writer) error {
	tables, err := e.openRequestTables(req.Tables)
	if err != nil {
		return err
	}

	if len(req.Projections) == 0 {
		for _, name := range req.Tables {
			tables[name].DumpHeader(out)
		}
	} else {
		headers := make([]string, len(req.Projections))
		for i, p := range req.Projections {
			headers[i] = expression.ToString(p)
		}
		fmt.Fprintln(out, strings.Join(headers, ","))
	}

	projCache := NewRowCache()
	for name, tbl := range tables {
		projCache.Bind(name, tbl)
	}

	emitted := 0
	err = e.Iterate(req.Tables, req.Where, func(map[string]int32) (bool, error) {
		emitted++
		if len(req.Projections) == 0 {
			for _, name := range req.Tables {
				if err := tables[name].DumpCachedRecord(out); err != nil {
					return false, err
				}
			}
			return true, nil
		}

		values := make([]string, len(req.Projections))
		for i, p := range req.Projections {
			v, err := expression.Eval(projCache, p)
			if err != nil {
				return false, errors.Wrap(err, "evaluating projection")
			}
			values[i] = formatValue(v)
		}
		fmt.Fprintln(out, strings.Join(values, ","))
		return true, nil
	})
	if err != nil {
		return err
	}

	e.logf("[Info] %d row(s) selected.", emitted)
	return nil
}

// numAcc accumulates a single-group numeric aggregate. The accumulator
// type starts as whichever type the first contributing row has; a
// later row of the other numeric type widens the accumulator to float
// from that point on (never narrows float back to int).
type numAcc struct {
	started bool
	isFloat bool
	count   int64
	sumI    int64
	sumF    float64
	minI    int32
	maxI    int32
	minF    float64
	maxF    float64
}

func (a *numAcc) add(v expression.Value) error {
	if v.Type != expression.TermInt && v.Type != expression.TermFloat {
		return errors.Wrapf(ErrNonNumericAgg, "got %v", v.Type)
	}
	a.count++

	if !a.started {
		a.started = true
		a.isFloat = v.Type == expression.TermFloat
		if a.isFloat {
			a.minF, a.maxF, a.sumF = float64(v.F), float64(v.F), float64(v.F)
		} else {
			a.minI, a.maxI, a.sumI = v.I, v.I, int64(v.I)
		}
		return nil
	}

	if v.Type == expression.TermFloat && !a.isFloat {
		a.isFloat = true
		a.sumF = float64(a.sumI)
		a.minF, a.maxF = float64(a.minI), float64(a.maxI)
	}

	if a.isFloat {
		fv := valueAsFloat(v)
		a.sumF += fv
		if fv < a.minF {
			a.minF = fv
		}
		if fv > a.maxF {
			a.maxF = fv
		}
		return nil
	}

	a.sumI += int64(v.I)
	if v.I < a.minI {
		a.minI = v.I
	}
	if v.I > a.maxI {
		a.maxI = v.I
	}
	return nil
}

func valueAsFloat(v expression.Value) float64 {
	if v.Type == expression.TermFloat {
		return float64(v.F)
	}
	return float64(v.I)
}

// sumValue treats SUM over an empty set as 0.
func (a *numAcc) sumValue() expression.Value {
	if !a.started {
		return expression.IntValue(0)
	}
	if a.isFloat {
		return expression.FloatValue(float32(a.sumF))
	}
	return expression.IntValue(int32(a.sumI))
}

// avgValue resolves AVG over an empty set as NULL rather than NaN.
func (a *numAcc) avgValue() expression.Value {
	if !a.started {
		return expression.NullValue()
	}
	sum := a.sumF
	if !a.isFloat {
		sum = float64(a.sumI)
	}
	return expression.FloatValue(float32(sum / float64(a.count)))
}

// minValue/maxValue treat MIN/MAX over an empty set as NULL rather than
// carrying forward a ±∞ sentinel, which has no Go representation in a
// typed Value.
func (a *numAcc) minValue() expression.Value {
	if !a.started {
		return expression.NullValue()
	}
	if a.isFloat {
		return expression.FloatValue(float32(a.minF))
	}
	return expression.IntValue(a.minI)
}

func (a *numAcc) maxValue() expression.Value {
	if !a.started {
		return expression.NullValue()
	}
	if a.isFloat {
		return expression.FloatValue(float32(a.maxF))
	}
	return expression.IntValue(a.maxI)
}

func (e *Engine) selectAggregate(req SelectRequest, out io.Writer) error {
	tables, err := e.openRequestTables(req.Tables)
	if err != nil {
		return err
	}

	aggNode := req.Projections[0]
	var inner *expression.Node
	if aggNode.Op != expression.OpCount {
		inner = aggNode.Left
	}

	projCache := NewRowCache()
	for name, tbl := range tables {
		projCache.Bind(name, tbl)
	}

	acc := &numAcc{}
	var count int64

	err = e.Iterate(req.Tables, req.Where, func(map[string]int32) (bool, error) {
		count++
		if aggNode.Op == expression.OpCount {
			return true, nil
		}
		v, err := expression.Eval(projCache, inner)
		if err != nil {
			return false, err
		}
		if err := acc.add(v); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	var result expression.Value
	switch aggNode.Op {
	case expression.OpCount:
		result = expression.IntValue(int32(count))
	case expression.OpSum:
		result = acc.sumValue()
	case expression.OpAvg:
		result = acc.avgValue()
	case expression.OpMin:
		result = acc.minValue()
	case expression.OpMax:
		result = acc.maxValue()
	default:
		return errors.Newf("unsupported aggregate operator %v", aggNode.Op)
	}

	fmt.Fprintln(out, expression.ToString(aggNode))
	fmt.Fprintln(out, formatValue(result))
	return nil
}
