package charts

import "math/rand/v2"

// Series colours.
const (
	purple = "#8884d8"
	green  = "#82ca9d"
	orange = "#ff7300"
	blue   = "#0088fe"
	grass  = "#4caf50"
	amber  = "#ffc107"
	grey   = "#ccc"
)

// LatentSeed seeds the latent sampling plot so it renders identically every
// time.
const LatentSeed = 0x6d6c76697a

func pts(xy ...float64) []Point {
	out := make([]Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func bars(ys ...float64) []Point {
	out := make([]Point, len(ys))
	for i, y := range ys {
		out[i] = Point{X: float64(i), Y: y}
	}
	return out
}

// RegressionLinear is a scatter with a piecewise linear fit.
func RegressionLinear() *Chart {
	return &Chart{
		Name: "regression-linear", Kind: KindComposed,
		Caption: "Piecewise / Linear approximation",
		XDomain: Domain{0, 100}, DashedGrid: true,
		Series: []Series{
			{Name: "y", Mark: MarkDots, Color: purple, Points: pts(10, 30, 30, 95, 45, 100, 50, 160, 70, 170, 90, 240)},
			{Name: "fit", Mark: MarkLine, Color: orange, Points: pts(10, 32, 30, 95, 45, 120, 50, 135, 70, 190, 90, 245)},
		},
	}
}

// RegressionSmooth is a scatter with a smooth non-linear fit.
func RegressionSmooth() *Chart {
	return &Chart{
		Name: "regression-smooth", Kind: KindComposed,
		Caption: "Smooth non-linear curve (Tanh)",
		XDomain: Domain{0, 100}, DashedGrid: true,
		Series: []Series{
			{Name: "y", Mark: MarkDots, Color: purple, Points: pts(10, 30, 30, 90, 45, 100, 50, 150, 70, 180, 90, 250)},
			{Name: "fit", Mark: MarkSmooth, Color: grass, Points: pts(10, 30, 30, 85, 45, 110, 50, 140, 70, 200, 90, 250)},
		},
	}
}

// ClusteringDistinct shows two well-separated clusters.
func ClusteringDistinct() *Chart {
	return &Chart{
		Name: "clustering-distinct", Kind: KindScatter,
		Caption: "Sharp separation (ReLU/Sigmoid)",
		XDomain: Domain{0, 100}, YDomain: Domain{0, 100},
		Series: []Series{
			{Name: "A", Mark: MarkDots, Color: purple, Points: pts(20, 80, 25, 85, 30, 75)},
			{Name: "B", Mark: MarkDots, Color: green, Points: pts(70, 20, 75, 25, 80, 15)},
		},
	}
}

// ClusteringSoft shows two overlapping clusters.
func ClusteringSoft() *Chart {
	return &Chart{
		Name: "clustering-soft", Kind: KindScatter,
		Caption: "Fuzzy/Overlapping boundaries (Tanh)",
		XDomain: Domain{0, 100}, YDomain: Domain{0, 100},
		Series: []Series{
			{Name: "A", Mark: MarkDots, Color: orange, Opacity: 0.6, Points: pts(30, 60, 35, 65, 40, 55, 50, 50)},
			{Name: "B", Mark: MarkDots, Color: blue, Opacity: 0.6, Points: pts(55, 45, 60, 35, 65, 40, 45, 45)},
		},
	}
}

// ClassSoftmax shows competitive class probabilities.
func ClassSoftmax() *Chart {
	return &Chart{
		Name: "classification-softmax", Kind: KindBar,
		Caption:    "Softmax: Competitive (Sum = 1.0)",
		YDomain:    Domain{0, 1},
		Categories: []string{"Cat", "Dog", "Bird"},
		DashedGrid: true,
		Series:     []Series{{Name: "Probability", Mark: MarkBar, Color: purple, Points: bars(0.05, 0.90, 0.05)}},
	}
}

// ClassSigmoid shows independent per-class probabilities.
func ClassSigmoid() *Chart {
	return &Chart{
		Name: "classification-sigmoid", Kind: KindBar,
		Caption:    "Sigmoid: Independent (Sum ≠ 1.0)",
		YDomain:    Domain{0, 1},
		Categories: []string{"Cat", "Dog", "Bird"},
		DashedGrid: true,
		Series:     []Series{{Name: "Probability", Mark: MarkBar, Color: green, Points: bars(0.8, 0.9, 0.1)}},
	}
}

// DimManifold shows a linear subspace projection.
func DimManifold() *Chart {
	return &Chart{
		Name: "dimensionality-manifold", Kind: KindScatter,
		Caption: "Subspace Projection (Linear)",
		XDomain: Domain{0, 80}, YDomain: Domain{0, 50},
		Series: []Series{
			{Name: "Component", Mark: MarkDots, Color: purple, Points: pts(10, 10, 20, 20, 30, 30, 40, 35, 50, 40, 60, 38, 70, 30)},
		},
	}
}

// DimBounded shows a latent space squashed into [0,1].
func DimBounded() *Chart {
	return &Chart{
		Name: "dimensionality-bounded", Kind: KindScatter,
		Caption: "Bounded Latent Space [0,1]",
		XDomain: Domain{0, 1}, YDomain: Domain{0, 1},
		Series: []Series{
			{Name: "Latent", Mark: MarkDots, Color: orange, Points: pts(0.1, 0.1, 0.2, 0.8, 0.8, 0.2, 0.9, 0.9, 0.5, 0.5, 0.3, 0.1)},
		},
	}
}

// SemiSupervised contrasts two labelled points with unlabelled ones.
func SemiSupervised() *Chart {
	return &Chart{
		Name: "semisupervised", Kind: KindScatter,
		Caption: "Labeled (Color) vs Unlabeled (Gray)",
		XDomain: Domain{0, 100}, YDomain: Domain{0, 100},
		Series: []Series{
			{Name: "labeled", Mark: MarkDots, Color: purple, Points: pts(20, 80, 80, 20), PointColors: []string{"blue", "red"}},
			{Name: "unlabeled", Mark: MarkDots, Color: grey, Points: pts(22, 78, 25, 82, 78, 22, 82, 18, 50, 50, 45, 55)},
		},
	}
}

// GANLosses plots discriminator and generator losses over training.
func GANLosses() *Chart {
	return &Chart{
		Name: "generative-gan", Kind: KindLine,
		Caption: "Adversarial Training Curves",
		DashedGrid: true, Legend: true,
		Series: []Series{
			{Name: "Discriminator", Mark: MarkSmooth, Color: purple, Points: pts(1, 0.1, 2, 0.3, 3, 0.5, 4, 0.5, 5, 0.45)},
			{Name: "Generator", Mark: MarkSmooth, Color: green, Points: pts(1, 2.0, 2, 1.5, 3, 0.7, 4, 0.8, 5, 0.6)},
		},
	}
}

// LatentSampling scatters 40 uniform samples in a 10×10 square.
func LatentSampling(seed uint64) *Chart {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	points := make([]Point, 40)
	for i := range points {
		points[i] = Point{X: r.Float64() * 10, Y: r.Float64() * 10}
	}
	return &Chart{
		Name: "generative-latent", Kind: KindScatter,
		Caption: "Latent Code Sampling (Normal Dist)",
		XDomain: Domain{0, 10}, YDomain: Domain{0, 10},
		HideAxes: true,
		Series:   []Series{{Name: "z", Mark: MarkDots, Color: orange, Opacity: 0.6, Points: points}},
	}
}

// RLReward plots cumulative reward per episode as a step curve.
func RLReward() *Chart {
	return &Chart{
		Name: "rl-reward", Kind: KindStep,
		Caption: "Cumulative Reward (Learning)",
		DashedGrid: true,
		Series: []Series{
			{Name: "Reward", Mark: MarkStep, Color: grass, Points: pts(0, -10, 10, -5, 20, 0, 30, 5, 40, 8, 50, 10)},
		},
	}
}

// RLPolicy shows a learned action distribution.
func RLPolicy() *Chart {
	return &Chart{
		Name: "rl-policy", Kind: KindBar,
		Caption:    "Learned Policy (Action Dist)",
		YDomain:    Domain{0, 1},
		Categories: []string{"Left", "Stay", "Right"},
		DashedGrid: true,
		Series:     []Series{{Name: "Action Prob", Mark: MarkBar, Color: amber, Points: bars(0.1, 0.1, 0.8)}},
	}
}

// All returns every chart in a stable order.
func All() []*Chart {
	return []*Chart{
		RegressionLinear(), RegressionSmooth(),
		ClusteringDistinct(), ClusteringSoft(),
		ClassSoftmax(), ClassSigmoid(),
		DimManifold(), DimBounded(),
		SemiSupervised(),
		GANLosses(), LatentSampling(LatentSeed),
		RLReward(), RLPolicy(),
	}
}
