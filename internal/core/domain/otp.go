package domain

import "time"

// UserOTP tracks the one-time code state of a user.
type UserOTP struct {
	UserID    string
	OTP       *string
	OTPExpiry *time.Time
	MaxOTPTry int        // Remaining tries before cooldown
	OTPMaxOut *time.Time // Cooldown end, set once tries are exhausted
}

// CanGenerate is false while the user is exhausted and inside the cooldown window.
func (o UserOTP) CanGenerate(now time.Time) bool {
	return !(o.MaxOTPTry == 0 && o.OTPMaxOut != nil && now.Before(*o.OTPMaxOut))
}

// IsValid reports whether otp matches the stored, unexpired code.
func (o UserOTP) IsValid(otp string, now time.Time) bool {
	if o.OTP == nil || o.OTPExpiry == nil {
		return false
	}
	return *o.OTP == otp && now.Before(*o.OTPExpiry)
}

// Issue stores a fresh code and consumes one try. When the last try is used the
// cooldown starts; once the cooldown has passed the counter is refilled.
func (o *UserOTP) Issue(code string, now time.Time, expiry, maxOut time.Duration, maxTries int) {
	exp := now.Add(expiry)
	o.OTP = &code
	o.OTPExpiry = &exp

	remaining := o.MaxOTPTry - 1
	switch {
	case remaining == 0:
		cooldown := now.Add(maxOut)
		o.MaxOTPTry = 0
		o.OTPMaxOut = &cooldown
	case remaining < 0:
		o.MaxOTPTry = maxTries
	default:
		o.MaxOTPTry = remaining
		o.OTPMaxOut = nil
	}
}

// Consume clears the code after a successful verification and refills the tries.
func (o *UserOTP) Consume(maxTries int) {
	o.OTPExpiry = nil
	o.OTPMaxOut = nil
	o.MaxOTPTry = maxTries
}
