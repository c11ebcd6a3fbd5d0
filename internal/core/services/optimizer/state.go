package optimizer

// State is the serializable snapshot of an Optimizer's observation
// history, best-seen record, and parameter space.
type State struct {
	ParamNames   []string                `json:"param_names"`
	Bounds       map[string][2]float64   `json:"bounds"`
	XHistory     [][]float64             `json:"x_history"`
	YHistory     []float64               `json:"y_history"`
	ParamHistory []map[string]float64    `json:"param_history"`
	BestReward   float64                 `json:"best_reward"`
	BestParams   map[string]float64      `json:"best_params"`
	NInitial     int                     `json:"n_initial"`
}

// GetState serializes the optimizer's state for persistence.
func (o *Optimizer) GetState() State {
	bounds := make(map[string][2]float64, len(o.space.Names))
	for i, name := range o.space.Names {
		bounds[name] = [2]float64{o.space.Bounds[i].Lo, o.space.Bounds[i].Hi}
	}

	return State{
		ParamNames:   append([]string(nil), o.space.Names...),
		Bounds:       bounds,
		XHistory:     cloneMatrix(o.xHistory),
		YHistory:     append([]float64(nil), o.yHistory...),
		ParamHistory: cloneParamHistory(o.paramHistory),
		BestReward:   o.bestReward,
		BestParams:   cloneParams(o.bestParams),
		NInitial:     o.nInitial,
	}
}

// LoadState restores observation history and the best-seen record.
// Missing fields default to empty, matching the "tolerates missing
// fields" restoration contract.
func (o *Optimizer) LoadState(s State) {
	if s.XHistory != nil {
		o.xHistory = cloneMatrix(s.XHistory)
	} else {
		o.xHistory = nil
	}
	if s.YHistory != nil {
		o.yHistory = append([]float64(nil), s.YHistory...)
	} else {
		o.yHistory = nil
	}
	if s.ParamHistory != nil {
		o.paramHistory = cloneParamHistory(s.ParamHistory)
	} else {
		o.paramHistory = nil
	}
	if s.BestParams != nil {
		o.bestReward = s.BestReward
		o.bestParams = cloneParams(s.BestParams)
	}
}

func cloneMatrix(m [][]float64) [][]float64 {
	if m == nil {
		return nil
	}
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func cloneParamHistory(h []map[string]float64) []map[string]float64 {
	if h == nil {
		return nil
	}
	out := make([]map[string]float64, len(h))
	for i, p := range h {
		out[i] = cloneParams(p)
	}
	return out
}
