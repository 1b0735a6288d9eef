package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ntentasd/motorsim/internal/predict"
	"github.com/ntentasd/motorsim/pkg/types"
)

const maxBodyBytes = 1 << 20

type predictRequest struct {
	Vibration *float64 `json:"vibration" validate:"required,gte=0"`
	MotorID   string   `json:"motor_id" validate:"omitempty,uuid"`
}

type usageRequest struct {
	Hour           *int     `json:"Hour" validate:"required,gte=0,lte=23"`
	Day            *int     `json:"Day" validate:"required,gte=0,lte=6"`
	VibrationLevel *float64 `json:"Vibration_Level" validate:"required,gte=0"`
	UsageFrequency *float64 `json:"Usage_Frequency" validate:"required,gte=0,lte=1"`
}

func (r usageRequest) input() predict.UsageInput {
	return predict.UsageInput{
		Hour:           *r.Hour,
		Day:            *r.Day,
		VibrationLevel: *r.VibrationLevel,
		UsageFrequency: *r.UsageFrequency,
	}
}

type loadRequest struct {
	VibrationLevel   *float64 `json:"Vibration_Level" validate:"required,gte=0"`
	MotorCurrent     *float64 `json:"Motor_Current" validate:"required,gte=0"`
	PowerConsumption *float64 `json:"Power_Consumption" validate:"required,gte=0"`
}

func (r loadRequest) input() predict.LoadInput {
	return predict.LoadInput{
		VibrationLevel:   *r.VibrationLevel,
		MotorCurrent:     *r.MotorCurrent,
		PowerConsumption: *r.PowerConsumption,
	}
}

type speedRequest struct {
	RequiredFlowRate *float64 `json:"Required_Flow_Rate" validate:"required,gte=0"`
	SystemPressure   *float64 `json:"System_Pressure" validate:"required,gte=0"`
	PowerConsumption *float64 `json:"Power_Consumption" validate:"required"`
}

func (r speedRequest) input() predict.SpeedInput {
	return predict.SpeedInput{
		RequiredFlowRate: *r.RequiredFlowRate,
		SystemPressure:   *r.SystemPressure,
		PowerConsumption: *r.PowerConsumption,
	}
}

type startStopRequest struct {
	VibrationChange *float64 `json:"Vibration_Change" validate:"required,gte=0"`
}

// decode reads a JSON body into dst and validates it. Failures are
// parameter errors so they reply 400.
func (app *App) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &types.ParameterError{Name: "body", Value: "json", Reason: err.Error()}
	}

	err := app.validate.Struct(dst)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := "failed " + fe.Tag() + " check"
		if fe.Tag() == "required" {
			reason = "is required"
		}
		return &types.ParameterError{Name: fe.Field(), Value: fieldValue(fe), Reason: reason}
	}
	if err != nil {
		return fmt.Errorf("validate request: %w", err)
	}
	return nil
}

func fieldValue(fe validator.FieldError) any {
	switch v := fe.Value().(type) {
	case *float64:
		if v != nil {
			return *v
		}
	case *int:
		if v != nil {
			return *v
		}
	default:
		return v
	}
	return nil
}
