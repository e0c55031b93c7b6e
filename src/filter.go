package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Reference filter design and frequency response for the
 *		Bode experiment.
 *
 *		IIR designs go the classical route: analog lowpass
 *		prototype, band transform, bilinear transform.  FIR
 *		designs are windowed sinc.  Allpass responses exist in
 *		closed form for IIR orders 1 and 2 only.
 *
 *		IIR frequency responses are evaluated on the analog
 *		design with the corner frequencies taken as given; FIR
 *		and allpass responses on the digital design against the
 *		sample rate.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"math/cmplx"
)

// FilterResponse selects the pass behaviour.
type FilterResponse int

const (
	Lowpass FilterResponse = iota
	Highpass
	Bandpass
	Bandstop
	Allpass
)

// ParseFilterResponse maps the settings-file names onto FilterResponse.
func ParseFilterResponse(s string) (FilterResponse, error) {
	switch s {
	case "low":
		return Lowpass, nil
	case "high":
		return Highpass, nil
	case "bandpass":
		return Bandpass, nil
	case "bandstop":
		return Bandstop, nil
	case "all":
		return Allpass, nil
	}
	return 0, fmt.Errorf("filter response %q: %w", s, ErrOutOfRange)
}

func (r FilterResponse) String() string {
	switch r {
	case Lowpass:
		return "low"
	case Highpass:
		return "high"
	case Bandpass:
		return "bandpass"
	case Bandstop:
		return "bandstop"
	case Allpass:
		return "all"
	}
	return "?"
}

// FilterDesign selects the approximation family.
type FilterDesign int

const (
	Butterworth FilterDesign = iota
	Chebyshev1
	Chebyshev2
	Elliptic
	Bessel
)

// ParseFilterDesign maps the settings-file names onto FilterDesign.
func ParseFilterDesign(s string) (FilterDesign, error) {
	switch s {
	case "butter":
		return Butterworth, nil
	case "cheby1":
		return Chebyshev1, nil
	case "cheby2":
		return Chebyshev2, nil
	case "ellip":
		return Elliptic, nil
	case "bessel":
		return Bessel, nil
	}
	return 0, fmt.Errorf("filter design %q: %w", s, ErrOutOfRange)
}

func (d FilterDesign) String() string {
	switch d {
	case Butterworth:
		return "butter"
	case Chebyshev1:
		return "cheby1"
	case Chebyshev2:
		return "cheby2"
	case Elliptic:
		return "ellip"
	case Bessel:
		return "bessel"
	}
	return "?"
}

// FilterSpec configures one filter stage.
type FilterSpec struct {
	Order      int
	SampleRate float64

	// Corners holds the corner frequency for low/high/all pass (order 1),
	// or two entries for bandpass/bandstop.  The order-2 allpass takes
	// break frequency and bandwidth.
	Corners []float64

	Response FilterResponse
	Design   FilterDesign
	IIR      bool

	// PassbandRippleDB and StopbandAttenDB apply to the Chebyshev and
	// elliptic designs; zero picks 1 dB and 40 dB.
	PassbandRippleDB float64
	StopbandAttenDB  float64
}

func (s FilterSpec) ripple() float64 {
	if s.PassbandRippleDB <= 0 {
		return 1
	}
	return s.PassbandRippleDB
}

func (s FilterSpec) stopAtten() float64 {
	if s.StopbandAttenDB <= 0 {
		return 40
	}
	return s.StopbandAttenDB
}

// FilterStage is one designed filter.
type FilterStage struct {
	Spec FilterSpec

	b, a             []float64 // digital coefficients, z^-i ascending
	analogB, analogA []float64 // analog design, s descending; nil for FIR and allpass
}

// NewFilterStage designs a filter stage from its configuration.
func NewFilterStage(spec FilterSpec) (*FilterStage, error) {
	f := &FilterStage{Spec: spec}

	if spec.Order < 1 {
		return nil, fmt.Errorf("filter order %d: %w", spec.Order, ErrOutOfRange)
	}
	if spec.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate %g: %w", spec.SampleRate, ErrOutOfRange)
	}
	wantCorners := 1
	if spec.Response == Bandpass || spec.Response == Bandstop || (spec.Response == Allpass && spec.Order == 2) {
		wantCorners = 2
	}
	if len(spec.Corners) < wantCorners {
		return nil, fmt.Errorf("%s filter needs %d corner(s), got %d: %w",
			spec.Response, wantCorners, len(spec.Corners), ErrOutOfRange)
	}

	switch {
	case !spec.IIR:
		if spec.Response == Allpass {
			return nil, fmt.Errorf("FIR allpass: %w (IIR orders 1 and 2 only)", ErrOutOfRange)
		}
		taps, err := firwinTaps(spec.Order, spec.Corners, spec.SampleRate, spec.Response)
		if err != nil {
			return nil, err
		}
		f.b = taps
		f.a = []float64{1}

	case spec.Response == Allpass:
		if err := f.designAllpass(); err != nil {
			return nil, err
		}

	default:
		if err := f.designIIR(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Coefficients returns the digital numerator and denominator.
func (f *FilterStage) Coefficients() ([]float64, []float64) {
	return f.b, f.a
}

// designAllpass builds the closed-form digital allpass of order 1 or 2.
func (f *FilterStage) designAllpass() error {
	s := f.Spec
	switch s.Order {
	case 1:
		v := math.Tan(math.Pi * s.Corners[0] / s.SampleRate)
		c0 := (v - 1) / (v + 1)
		f.b = []float64{c0, 1}
		f.a = []float64{1, c0}
	case 2:
		v := math.Tan(math.Pi * s.Corners[1] / s.SampleRate)
		c0 := (v - 1) / (v + 1)
		c1 := -math.Cos(2 * math.Pi * s.Corners[0] / s.SampleRate)
		f.b = []float64{-c0, c1 * (1 - c0), 1}
		f.a = []float64{1, c1 * (1 - c0), -c0}
	default:
		return fmt.Errorf("allpass order %d: %w (IIR orders 1 and 2 only)", s.Order, ErrOutOfRange)
	}
	return nil
}

// designIIR runs prototype, band transform and bilinear transform.
func (f *FilterStage) designIIR() error {
	s := f.Spec

	z, p, k, err := analogPrototype(s.Design, s.Order, s.ripple(), s.stopAtten())
	if err != nil {
		return err
	}

	// Digital path with prewarped corners.
	warped := make([]float64, len(s.Corners))
	for i, fc := range s.Corners {
		warped[i] = 2 * s.SampleRate * math.Tan(math.Pi*fc/s.SampleRate)
	}
	zd, pd, kd, err := bandTransform(z, p, k, warped, s.Response)
	if err != nil {
		return err
	}
	zd, pd, kd = bilinearZPK(zd, pd, kd, s.SampleRate)
	f.b, f.a = zpkToBA(zd, pd, kd)

	// Analog path with corners as given, for the frequency response.
	za, pa, ka, err := bandTransform(z, p, k, s.Corners, s.Response)
	if err != nil {
		return err
	}
	f.analogB, f.analogA = zpkToBA(za, pa, ka)
	return nil
}

// Filter applies the stage to a trace, direct form II transposed.
func (f *FilterStage) Filter(x []float64) []float64 {
	n := len(f.a)
	if len(f.b) > n {
		n = len(f.b)
	}
	b := make([]float64, n)
	a := make([]float64, n)
	copy(b, f.b)
	copy(a, f.a)
	for i := range b {
		b[i] /= a[0]
	}
	for i := n - 1; i >= 0; i-- {
		a[i] /= a[0]
	}

	state := make([]float64, n-1)
	out := make([]float64, len(x))
	for i, v := range x {
		y := b[0]*v + first(state)
		for j := 0; j < len(state); j++ {
			next := 0.0
			if j+1 < len(state) {
				next = state[j+1]
			}
			state[j] = b[j+1]*v + next - a[j+1]*y
		}
		out[i] = y
	}
	return out
}

func first(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// FreqResponse evaluates the stage at the given frequencies, returning
// linear gain and phase in degrees.
func (f *FilterStage) FreqResponse(freqs []float64) ([]float64, []float64) {
	gain := make([]float64, len(freqs))
	phase := make([]float64, len(freqs))
	for i, fr := range freqs {
		var h complex128
		if f.analogB != nil {
			s := complex(0, fr)
			h = polyval(f.analogB, s) / polyval(f.analogA, s)
		} else {
			w := 2 * math.Pi * fr / f.Spec.SampleRate
			zinv := cmplx.Exp(complex(0, -w))
			h = polyvalZ(f.b, zinv) / polyvalZ(f.a, zinv)
		}
		gain[i] = cmplx.Abs(h)
		phase[i] = cmplx.Phase(h) * 180 / math.Pi
	}
	return gain, phase
}

// CoefficientQuantization reports the digital coefficients on a fixed-point
// grid together with the rounding error per coefficient.
type CoefficientQuantization struct {
	B, A       []float64
	BErr, AErr []float64
}

// QuantizedCoefficients quantizes the stage coefficients to the given
// format, the way they would land in the device.
func (f *FilterStage) QuantizedCoefficients(fp FixedPoint) CoefficientQuantization {
	quant := func(cs []float64) ([]float64, []float64) {
		q := make([]float64, len(cs))
		e := make([]float64, len(cs))
		for i, c := range cs {
			q[i] = fp.AsRational(fp.AsInteger(c))
			e[i] = c - q[i]
		}
		return q, e
	}
	var out CoefficientQuantization
	out.B, out.BErr = quant(f.b)
	out.A, out.AErr = quant(f.a)
	return out
}

/*------------------------------------------------------------------
 * Analog lowpass prototypes, cutoff 1, as zeros/poles/gain.
 *------------------------------------------------------------------*/

func analogPrototype(design FilterDesign, order int, rpDB, rsDB float64) ([]complex128, []complex128, float64, error) {
	switch design {
	case Butterworth:
		z, p, k := butterAP(order)
		return z, p, k, nil
	case Chebyshev1:
		z, p, k := cheby1AP(order, rpDB)
		return z, p, k, nil
	case Chebyshev2:
		z, p, k := cheby2AP(order, rsDB)
		return z, p, k, nil
	case Elliptic:
		z, p, k := ellipAP(order, rpDB, rsDB)
		return z, p, k, nil
	case Bessel:
		z, p, k := besselAP(order)
		return z, p, k, nil
	}
	return nil, nil, 0, fmt.Errorf("filter design %d: %w", design, ErrOutOfRange)
}

func butterAP(n int) ([]complex128, []complex128, float64) {
	p := make([]complex128, n)
	for i := 0; i < n; i++ {
		theta := math.Pi * float64(2*i+1) / float64(2*n)
		p[i] = complex(-math.Sin(theta), math.Cos(theta))
	}
	return nil, p, realProdNeg(p)
}

func cheby1AP(n int, rpDB float64) ([]complex128, []complex128, float64) {
	eps := math.Sqrt(math.Pow(10, 0.1*rpDB) - 1)
	mu := math.Asinh(1/eps) / float64(n)

	p := make([]complex128, n)
	for i := 0; i < n; i++ {
		m := float64(-n + 1 + 2*i)
		ang := math.Pi * m / float64(2*n)
		p[i] = -cmplx.Sinh(complex(mu, ang))
	}
	k := realProdNeg(p)
	if n%2 == 0 {
		k /= math.Sqrt(1 + eps*eps)
	}
	return nil, p, k
}

func cheby2AP(n int, rsDB float64) ([]complex128, []complex128, float64) {
	de := 1 / math.Sqrt(math.Pow(10, 0.1*rsDB)-1)
	mu := math.Asinh(1/de) / float64(n)

	var z []complex128
	for i := 0; i < n; i++ {
		m := float64(-n + 1 + 2*i)
		if m == 0 {
			continue
		}
		z = append(z, cmplx.Conj(complex(0, -1)/complex(math.Sin(m*math.Pi/float64(2*n)), 0)))
	}

	p := make([]complex128, n)
	for i := 0; i < n; i++ {
		m := float64(-n + 1 + 2*i)
		e := -cmplx.Exp(complex(0, math.Pi*m/float64(2*n)))
		pe := complex(math.Sinh(mu)*real(e), math.Cosh(mu)*imag(e))
		p[i] = 1 / pe
	}

	k := real(prodNeg(p) / prodNeg(z))
	return z, p, k
}

func besselAP(n int) ([]complex128, []complex128, float64) {
	// Reverse Bessel polynomial, monic: c_k of s^k is
	// (2n-k)! / (2^(n-k) k! (n-k)!).
	coeffs := make([]float64, n+1)
	for k := 0; k <= n; k++ {
		coeffs[n-k] = factorial(2*n-k) / (math.Pow(2, float64(n-k)) * factorial(k) * factorial(n-k))
	}
	roots := polyRoots(coeffs)

	// Scale poles to a unity characteristic frequency.
	scale := math.Pow(coeffs[n], 1/float64(n))
	p := make([]complex128, len(roots))
	for i, r := range roots {
		p[i] = r / complex(scale, 0)
	}
	return nil, p, realProdNeg(p)
}

func factorial(n int) float64 {
	out := 1.0
	for i := 2; i <= n; i++ {
		out *= float64(i)
	}
	return out
}

/*------------------------------------------------------------------
 * Elliptic prototype, after Orfanidis' Landen-iteration treatment.
 *------------------------------------------------------------------*/

func landen(k float64) []float64 {
	var v []float64
	for i := 0; i < 20 && k > 1e-14; i++ {
		kp := math.Sqrt(1 - k*k)
		k = (k / (1 + kp)) * (k / (1 + kp))
		v = append(v, k)
	}
	return v
}

// cde evaluates the Jacobi cd function at u (in quarter-period units).
func cde(u complex128, k float64) complex128 {
	v := landen(k)
	w := cmplx.Cos(u * complex(math.Pi/2, 0))
	for i := len(v) - 1; i >= 0; i-- {
		w = (1 + complex(v[i], 0)) * w / (1 + complex(v[i], 0)*w*w)
	}
	return w
}

// sne evaluates the Jacobi sn function at u (in quarter-period units).
func sne(u complex128, k float64) complex128 {
	v := landen(k)
	w := cmplx.Sin(u * complex(math.Pi/2, 0))
	for i := len(v) - 1; i >= 0; i-- {
		w = (1 + complex(v[i], 0)) * w / (1 + complex(v[i], 0)*w*w)
	}
	return w
}

// asne inverts sne.
func asne(w complex128, k float64) complex128 {
	v := landen(k)
	for i := 0; i < len(v); i++ {
		prev := k
		if i > 0 {
			prev = v[i-1]
		}
		w = 2 * w / ((1 + complex(v[i], 0)) * (1 + cmplx.Sqrt(1-complex(prev*prev, 0)*w*w)))
	}
	return 2 * cmplx.Asin(w) / complex(math.Pi, 0)
}

// ellipdeg solves the degree equation for the selectivity k given N and the
// discrimination k1.
func ellipdeg(n int, k1 float64) float64 {
	l := n / 2
	kc := math.Sqrt(1 - k1*k1)
	prod := 1.0
	for i := 1; i <= l; i++ {
		u := complex(float64(2*i-1)/float64(n), 0)
		prod *= real(sne(u, kc))
	}
	kp := math.Pow(kc, float64(n)) * math.Pow(prod, 4)
	return math.Sqrt(1 - kp*kp)
}

func ellipAP(n int, rpDB, rsDB float64) ([]complex128, []complex128, float64) {
	ep := math.Sqrt(math.Pow(10, 0.1*rpDB) - 1)
	es := math.Sqrt(math.Pow(10, 0.1*rsDB) - 1)
	k1 := ep / es
	k := ellipdeg(n, k1)

	l := n / 2
	var z, p []complex128

	v0 := -1i * asne(1i/complex(ep, 0), k1) / complex(float64(n), 0)

	for i := 1; i <= l; i++ {
		u := complex(float64(2*i-1)/float64(n), 0)
		zeta := real(cde(u, k))
		zi := complex(0, 1/(k*zeta))
		z = append(z, zi, cmplx.Conj(zi))

		pi := 1i * cde(u-1i*v0, k)
		p = append(p, pi, cmplx.Conj(pi))
	}
	if n%2 == 1 {
		p0 := 1i * sne(1i*v0, k)
		p = append(p, complex(real(p0), 0))
	}

	g := real(prodNeg(p) / prodNeg(z))
	if n%2 == 0 {
		g /= math.Sqrt(1 + ep*ep)
	}
	return z, p, g
}

/*------------------------------------------------------------------
 * Band transforms, bilinear transform, polynomial helpers.
 *------------------------------------------------------------------*/

func bandTransform(z, p []complex128, k float64, corners []float64, response FilterResponse) ([]complex128, []complex128, float64, error) {
	switch response {
	case Lowpass:
		zo, po, ko := lp2lp(z, p, k, corners[0])
		return zo, po, ko, nil
	case Highpass:
		zo, po, ko := lp2hp(z, p, k, corners[0])
		return zo, po, ko, nil
	case Bandpass:
		wo := math.Sqrt(corners[0] * corners[1])
		bw := corners[1] - corners[0]
		zo, po, ko := lp2bp(z, p, k, wo, bw)
		return zo, po, ko, nil
	case Bandstop:
		wo := math.Sqrt(corners[0] * corners[1])
		bw := corners[1] - corners[0]
		zo, po, ko := lp2bs(z, p, k, wo, bw)
		return zo, po, ko, nil
	}
	return nil, nil, 0, fmt.Errorf("band transform for %s: %w", response, ErrOutOfRange)
}

func lp2lp(z, p []complex128, k, wo float64) ([]complex128, []complex128, float64) {
	zo := scaleRoots(z, wo)
	po := scaleRoots(p, wo)
	ko := k * math.Pow(wo, float64(len(p)-len(z)))
	return zo, po, ko
}

func lp2hp(z, p []complex128, k, wo float64) ([]complex128, []complex128, float64) {
	zo := invertRoots(z, wo)
	po := invertRoots(p, wo)
	for i := 0; i < len(p)-len(z); i++ {
		zo = append(zo, 0)
	}
	ko := k * real(prodNeg(z)/prodNeg(p))
	return zo, po, ko
}

func lp2bp(z, p []complex128, k, wo, bw float64) ([]complex128, []complex128, float64) {
	zo := bpRoots(z, wo, bw)
	po := bpRoots(p, wo, bw)
	for i := 0; i < len(p)-len(z); i++ {
		zo = append(zo, 0)
	}
	ko := k * math.Pow(bw, float64(len(p)-len(z)))
	return zo, po, ko
}

func lp2bs(z, p []complex128, k, wo, bw float64) ([]complex128, []complex128, float64) {
	zo := bsRoots(z, wo, bw)
	po := bsRoots(p, wo, bw)
	for i := 0; i < len(p)-len(z); i++ {
		zo = append(zo, complex(0, wo), complex(0, -wo))
	}
	ko := k * real(prodNeg(z)/prodNeg(p))
	return zo, po, ko
}

func scaleRoots(rs []complex128, wo float64) []complex128 {
	out := make([]complex128, len(rs))
	for i, r := range rs {
		out[i] = r * complex(wo, 0)
	}
	return out
}

func invertRoots(rs []complex128, wo float64) []complex128 {
	out := make([]complex128, len(rs))
	for i, r := range rs {
		out[i] = complex(wo, 0) / r
	}
	return out
}

func bpRoots(rs []complex128, wo, bw float64) []complex128 {
	var out []complex128
	for _, r := range rs {
		s := r * complex(bw/2, 0)
		d := cmplx.Sqrt(s*s - complex(wo*wo, 0))
		out = append(out, s+d, s-d)
	}
	return out
}

func bsRoots(rs []complex128, wo, bw float64) []complex128 {
	var out []complex128
	for _, r := range rs {
		s := complex(bw/2, 0) / r
		d := cmplx.Sqrt(s*s - complex(wo*wo, 0))
		out = append(out, s+d, s-d)
	}
	return out
}

func bilinearZPK(z, p []complex128, k, fs float64) ([]complex128, []complex128, float64) {
	fs2 := complex(2*fs, 0)

	zd := make([]complex128, len(z))
	for i, r := range z {
		zd[i] = (fs2 + r) / (fs2 - r)
	}
	pd := make([]complex128, len(p))
	for i, r := range p {
		pd[i] = (fs2 + r) / (fs2 - r)
	}
	for i := 0; i < len(p)-len(z); i++ {
		zd = append(zd, -1)
	}

	num := complex(1, 0)
	for _, r := range z {
		num *= fs2 - r
	}
	den := complex(1, 0)
	for _, r := range p {
		den *= fs2 - r
	}
	return zd, pd, k * real(num/den)
}

func prodNeg(rs []complex128) complex128 {
	out := complex(1, 0)
	for _, r := range rs {
		out *= -r
	}
	return out
}

func realProdNeg(rs []complex128) float64 {
	return real(prodNeg(rs))
}

func polyFromRoots(rs []complex128) []complex128 {
	c := []complex128{1}
	for _, r := range rs {
		next := make([]complex128, len(c)+1)
		for i, ci := range c {
			next[i] += ci
			next[i+1] -= ci * r
		}
		c = next
	}
	return c
}

func zpkToBA(z, p []complex128, k float64) ([]float64, []float64) {
	bc := polyFromRoots(z)
	ac := polyFromRoots(p)
	b := make([]float64, len(bc))
	for i, c := range bc {
		b[i] = real(c) * k
	}
	a := make([]float64, len(ac))
	for i, c := range ac {
		a[i] = real(c)
	}
	return b, a
}

// polyval evaluates a polynomial with descending coefficients at s.
func polyval(c []float64, s complex128) complex128 {
	out := complex(0, 0)
	for _, ci := range c {
		out = out*s + complex(ci, 0)
	}
	return out
}

// polyvalZ evaluates digital coefficients c[i]*zinv^i.
func polyvalZ(c []float64, zinv complex128) complex128 {
	out := complex(0, 0)
	pow := complex(1, 0)
	for _, ci := range c {
		out += complex(ci, 0) * pow
		pow *= zinv
	}
	return out
}

// polyRoots finds all roots of a real polynomial with descending
// coefficients by Durand-Kerner iteration.  The polynomial is normalized to
// monic first.
func polyRoots(coeffs []float64) []complex128 {
	n := len(coeffs) - 1
	c := make([]complex128, len(coeffs))
	for i, v := range coeffs {
		c[i] = complex(v/coeffs[0], 0)
	}

	eval := func(x complex128) complex128 {
		out := complex(0, 0)
		for _, ci := range c {
			out = out*x + ci
		}
		return out
	}

	roots := make([]complex128, n)
	seed := complex(0.4, 0.9)
	roots[0] = 1
	for i := 1; i < n; i++ {
		roots[i] = roots[i-1] * seed
	}

	for iter := 0; iter < 500; iter++ {
		maxStep := 0.0
		for i := range roots {
			d := complex(1, 0)
			for j := range roots {
				if j != i {
					d *= roots[i] - roots[j]
				}
			}
			step := eval(roots[i]) / d
			roots[i] -= step
			if s := cmplx.Abs(step); s > maxStep {
				maxStep = s
			}
		}
		if maxStep < 1e-14 {
			break
		}
	}
	return roots
}

/*------------------------------------------------------------------
 * FIR windowed-sinc design (Hamming window).
 *------------------------------------------------------------------*/

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

func firwinTaps(numtaps int, corners []float64, fs float64, response FilterResponse) ([]float64, error) {
	nyq := fs / 2

	// Pass bands in normalized frequency, 1 = Nyquist.
	var bands [][2]float64
	switch response {
	case Lowpass:
		bands = [][2]float64{{0, corners[0] / nyq}}
	case Highpass:
		bands = [][2]float64{{corners[0] / nyq, 1}}
	case Bandpass:
		bands = [][2]float64{{corners[0] / nyq, corners[1] / nyq}}
	case Bandstop:
		bands = [][2]float64{{0, corners[0] / nyq}, {corners[1] / nyq, 1}}
	default:
		return nil, fmt.Errorf("FIR %s: %w", response, ErrOutOfRange)
	}
	for _, band := range bands {
		if band[0] < 0 || band[1] > 1 || band[0] >= band[1] {
			return nil, fmt.Errorf("FIR corners %v at fs %g: %w", corners, fs, ErrOutOfRange)
		}
	}

	passesNyquist := bands[len(bands)-1][1] == 1
	if passesNyquist && numtaps%2 == 0 {
		return nil, fmt.Errorf("%s FIR needs an odd tap count, got %d: %w", response, numtaps, ErrOutOfRange)
	}

	alpha := 0.5 * float64(numtaps-1)
	h := make([]float64, numtaps)
	for n := range h {
		m := float64(n) - alpha
		for _, band := range bands {
			h[n] += band[1]*sinc(band[1]*m) - band[0]*sinc(band[0]*m)
		}
	}

	// Hamming window.
	for n := range h {
		h[n] *= 0.54 - 0.46*math.Cos(2*math.Pi*float64(n)/float64(numtaps-1))
	}

	// Normalize at the reference frequency of the first pass band.
	var scaleFreq float64
	switch {
	case bands[0][0] == 0:
		scaleFreq = 0
	case bands[0][1] == 1:
		scaleFreq = 1
	default:
		scaleFreq = (bands[0][0] + bands[0][1]) / 2
	}
	s := 0.0
	for n := range h {
		m := float64(n) - alpha
		s += h[n] * math.Cos(math.Pi*m*scaleFreq)
	}
	for n := range h {
		h[n] /= s
	}
	return h, nil
}
