package hydro

import "math"

// Geometry describes the static waterplane and displaced volume of the body
// at its equilibrium position, in the waterplane coordinate system.
type Geometry struct {
	// S is the waterplane area; S11 and S22 its second moments about the
	// x and y axes.
	S, S11, S22 float64
	Volume      float64
	COB         [3]float64
	COG         [3]float64
}

// RestoringMatrix computes the linear hydrostatic stiffness c about the
// equilibrium position (Newman 1977, section 6.16). First moments of the
// waterplane are taken as zero.
func RestoringMatrix(g Geometry, mass, rho, grav float64) Mat6 {
	var c Mat6
	rg := rho * grav
	mg := mass * grav
	xb, yb, zb := g.COB[0], g.COB[1], g.COB[2]
	xg, yg, zg := g.COG[0], g.COG[1], g.COG[2]

	c[Heave][Heave] = rg * g.S
	c[Roll][Roll] = rg*(g.S11+g.Volume*zb) - mg*zg
	c[Pitch][Pitch] = rg*(g.S22+g.Volume*zb) - mg*zg
	c[Roll][Yaw] = -rg*g.Volume*xb + mg*xg
	c[Pitch][Yaw] = -rg*g.Volume*yb + mg*yg
	return c
}

// rotation returns R = Rz(psi) Ry(theta) Rx(phi).
func rotation(phi, theta, psi float64) [3][3]float64 {
	sf, cf := math.Sincos(phi)
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(psi)
	return [3][3]float64{
		{cp * ct, cp*st*sf - sp*cf, cp*st*cf + sp*sf},
		{sp * ct, sp*st*sf + cp*cf, sp*st*cf - cp*sf},
		{-st, ct * sf, ct * cf},
	}
}

// verticalLoad returns the generalized force of a vertical force fz applied
// at body point r, rotated by the orientation part of x. Moments are about
// the body reference point.
func verticalLoad(x []float64, r [3]float64, fz float64) Vec6 {
	R := rotation(x[Roll], x[Pitch], x[Yaw])
	var p [3]float64
	for i := 0; i < 3; i++ {
		p[i] = R[i][0]*r[0] + R[i][1]*r[1] + R[i][2]*r[2]
	}
	var f Vec6
	f[Heave] = fz
	f[Roll] = p[1] * fz
	f[Pitch] = -p[0] * fz
	return f
}

// gravityForce is the weight acting at the rotated centre of gravity.
func gravityForce(x []float64, mass, grav float64, cog [3]float64) Vec6 {
	return verticalLoad(x, cog, -mass*grav)
}

// buoyancyForce is the equilibrium buoyancy acting at the rotated centre of
// buoyancy plus the waterplane stiffness for the current heave, roll and
// pitch. The waterplane part is the small-displacement term of c.
func buoyancyForce(x []float64, g Geometry, rho, grav float64) Vec6 {
	rg := rho * grav
	f := verticalLoad(x, g.COB, rg*g.Volume)
	f[Heave] -= rg * g.S * x[Heave]
	f[Roll] -= rg * g.S11 * x[Roll]
	f[Pitch] -= rg * g.S22 * x[Pitch]
	return f
}
