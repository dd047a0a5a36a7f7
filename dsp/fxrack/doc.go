// Package fxrack implements the collaborators driven by the effects manager:
// Effect, Chain and Rack.
//
// An Effect wraps a Kernel, the DSP algorithm proper, together with its
// parameter values. A Chain runs its effects in series for the input channels
// it is enabled for and blends the result with the dry signal. A Rack runs
// its chains in series and forms one processing stage (pre-fader or
// post-fader).
//
// Collaborators are constructed on the control thread and handed to the audio
// thread through attach requests. From then on they are mutated only by
// ProcessRequest on the audio thread; the accessor methods are meant for that
// thread (and for tests).
package fxrack
