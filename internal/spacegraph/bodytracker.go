package spacegraph

// BodyJoint indexes the Meta full-body tracking joint set
// (XR_FULL_BODY_JOINT_*), used when a Space's Source is SourceBodyJoint.
// Only a subset is ever populated by a given host body tracker; an
// unsupported joint's JointPose call simply reports ok=false.
type BodyJoint int

const (
	BodyJointRoot BodyJoint = iota
	BodyJointHips
	BodyJointSpineLower
	BodyJointSpineMiddle
	BodyJointSpineUpper
	BodyJointChest
	BodyJointNeck
	BodyJointHead
	BodyJointLeftShoulder
	BodyJointLeftScapula
	BodyJointLeftArmUpper
	BodyJointLeftArmLower
	BodyJointLeftHandWristTwist
	BodyJointRightShoulder
	BodyJointRightScapula
	BodyJointRightArmUpper
	BodyJointRightArmLower
	BodyJointRightHandWristTwist
	BodyJointLeftHandPalm
	BodyJointLeftHandWrist
	BodyJointLeftHandThumbMetacarpal
	BodyJointLeftHandThumbProximal
	BodyJointLeftHandThumbDistal
	BodyJointLeftHandThumbTip
	BodyJointLeftHandIndexMetacarpal
	BodyJointLeftHandIndexProximal
	BodyJointLeftHandIndexIntermediate
	BodyJointLeftHandIndexDistal
	BodyJointLeftHandIndexTip
	BodyJointLeftHandMiddleMetacarpal
	BodyJointLeftHandMiddleProximal
	BodyJointLeftHandMiddleIntermediate
	BodyJointLeftHandMiddleDistal
	BodyJointLeftHandMiddleTip
	BodyJointLeftHandRingMetacarpal
	BodyJointLeftHandRingProximal
	BodyJointLeftHandRingIntermediate
	BodyJointLeftHandRingDistal
	BodyJointLeftHandRingTip
	BodyJointLeftHandLittleMetacarpal
	BodyJointLeftHandLittleProximal
	BodyJointLeftHandLittleIntermediate
	BodyJointLeftHandLittleDistal
	BodyJointLeftHandLittleTip
	BodyJointRightHandPalm
	BodyJointRightHandWrist
	BodyJointRightHandThumbMetacarpal
	BodyJointRightHandThumbProximal
	BodyJointRightHandThumbDistal
	BodyJointRightHandThumbTip
	BodyJointRightHandIndexMetacarpal
	BodyJointRightHandIndexProximal
	BodyJointRightHandIndexIntermediate
	BodyJointRightHandIndexDistal
	BodyJointRightHandIndexTip
	BodyJointRightHandMiddleMetacarpal
	BodyJointRightHandMiddleProximal
	BodyJointRightHandMiddleIntermediate
	BodyJointRightHandMiddleDistal
	BodyJointRightHandMiddleTip
	BodyJointRightHandRingMetacarpal
	BodyJointRightHandRingProximal
	BodyJointRightHandRingIntermediate
	BodyJointRightHandRingDistal
	BodyJointRightHandRingTip
	BodyJointRightHandLittleMetacarpal
	BodyJointRightHandLittleProximal
	BodyJointRightHandLittleIntermediate
	BodyJointRightHandLittleDistal
	BodyJointRightHandLittleTip
	BodyJointLeftUpperLeg
	BodyJointLeftLowerLeg
	BodyJointLeftFootAnkleTwist
	BodyJointLeftFootAnkle
	BodyJointLeftFootSubtalar
	BodyJointLeftFootTransverse
	BodyJointLeftFootBall
	BodyJointRightUpperLeg
	BodyJointRightLowerLeg
	BodyJointRightFootAnkleTwist
	BodyJointRightFootAnkle
	BodyJointRightFootSubtalar
	BodyJointRightFootTransverse
	BodyJointRightFootBall

	bodyJointCount
)

// CalibrationFidelity mirrors XR_META_body_tracking_fidelity's
// XrBodyTrackingFidelityMETA (plus a None value this runtime reports
// before any fidelity request has succeeded).
type CalibrationFidelity int

const (
	CalibrationFidelityNone CalibrationFidelity = iota
	CalibrationFidelityLow
	CalibrationFidelityHigh
)

// CalibrationState mirrors XR_META_body_tracking_calibration's
// XrBodyTrackingCalibrationStateMETA.
type CalibrationState int

const (
	CalibrationStateInvalid CalibrationState = iota
	CalibrationStateCalibrating
	CalibrationStateValid
)

// ValidBodyJoint reports whether j is within the joint set this runtime
// recognizes.
func ValidBodyJoint(j int) bool {
	return j >= 0 && j < int(bodyJointCount)
}
