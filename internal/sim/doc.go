// Package sim generates trajectory data for a planar differential-drive robot.
//
// Two poses advance through the same unicycle motion model every step:
//
//   - the true pose, driven by the exact nominal [Input]
//   - the odometry pose, driven by the input after Gaussian noise injection
//
// An [ObservationModel] periodically reports the true position. Two variants
// exist as separate types: [ExactObservation] returns the true
// position untouched, [NoisyObservation] adds Gaussian noise and reports the
// noise magnitude it used.
//
// # Example
//
//	s := sim.New(sim.NewNoisyObservation(4.0, 0.1, 0.1))
//	log, err := s.Run(ctx, sim.DefaultConfig())
//
// # Reproducibility
//
// All randomness comes from an injected [Sampler]. Each step draws two
// samples for input noise, followed by two more for observation noise on due
// steps of the noisy variant. Replaying the same seed with the same
// configuration reproduces the log bit for bit.
package sim
