// Package controller runs render cycles for a single selected task:
// render the form, await a submission, validate it, invoke the model and
// display the verdict. Every failure a user can cause or observe is turned
// into a message on the surface and the cycle always returns to Idle.
package controller
