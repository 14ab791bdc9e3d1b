package dto

import (
	"github.com/hr-admin-api/internal/domain"
)

const dateLayout = "2006-01-02"

func audit(show bool, createdBy, updatedBy *int64) AuditFields {
	if !show {
		return AuditFields{}
	}
	return AuditFields{CreatedBy: createdBy, UpdatedBy: updatedBy}
}

// ToDepartmentResponse преобразует модель в DTO (рекурсивно)
func ToDepartmentResponse(dept *domain.Department, showAudit bool) DepartmentResponse {
	resp := DepartmentResponse{
		ID:          dept.ID,
		Name:        dept.Name,
		ParentID:    dept.ParentID,
		CreatedAt:   dept.CreatedAt,
		AuditFields: audit(showAudit, dept.CreatedBy, dept.UpdatedBy),
	}

	if len(dept.Employees) > 0 {
		resp.Employees = make([]EmployeeResponse, len(dept.Employees))
		for i := range dept.Employees {
			resp.Employees[i] = ToEmployeeResponse(&dept.Employees[i], showAudit)
		}
	}

	if len(dept.Children) > 0 {
		resp.Children = make([]DepartmentResponse, len(dept.Children))
		for i := range dept.Children {
			resp.Children[i] = ToDepartmentResponse(&dept.Children[i], showAudit)
		}
	}

	return resp
}

// ToDesignationResponse преобразует модель в DTO
func ToDesignationResponse(d *domain.Designation) DesignationResponse {
	return DesignationResponse{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt}
}

// ToPositionResponse преобразует модель в DTO; assigned может быть nil
func ToPositionResponse(pos *domain.OrganizationalPosition, assigned *int64, showAudit bool) PositionResponse {
	return PositionResponse{
		ID:                  pos.ID,
		Title:               pos.Title,
		DepartmentID:        pos.DepartmentID,
		DesignationID:       pos.DesignationID,
		ReportingPositionID: pos.ReportingPositionID,
		HeadCount:           pos.HeadCount,
		AssignedCount:       assigned,
		IsActive:            pos.IsActive,
		CreatedAt:           pos.CreatedAt,
		UpdatedAt:           pos.UpdatedAt,
		AuditFields:         audit(showAudit, pos.CreatedBy, pos.UpdatedBy),
	}
}

// ToEmployeeResponse преобразует модель в DTO
func ToEmployeeResponse(emp *domain.Employee, showAudit bool) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                       emp.ID,
		EmployeeCode:             emp.EmployeeCode,
		FullName:                 emp.FullName,
		Email:                    emp.Email,
		DepartmentID:             emp.DepartmentID,
		DesignationID:            emp.DesignationID,
		OrganizationalPositionID: emp.OrganizationalPositionID,
		CreatedAt:                emp.CreatedAt,
		AuditFields:              audit(showAudit, emp.CreatedBy, emp.UpdatedBy),
	}
	if emp.HiredAt != nil {
		hiredAt := emp.HiredAt.Format(dateLayout)
		resp.HiredAt = &hiredAt
	}
	for _, c := range emp.Contacts {
		resp.Contacts = append(resp.Contacts, ContactResponse{
			ID:       c.ID,
			Name:     c.Name,
			Relation: c.Relation,
			Phone:    c.Phone,
		})
	}
	return resp
}

// ToJobPositionResponse преобразует модель в DTO
func ToJobPositionResponse(job *domain.JobPosition, showAudit bool) JobPositionResponse {
	return JobPositionResponse{
		ID:           job.ID,
		Title:        job.Title,
		DepartmentID: job.DepartmentID,
		Openings:     job.Openings,
		Status:       string(job.Status),
		CreatedAt:    job.CreatedAt,
		AuditFields:  audit(showAudit, job.CreatedBy, nil),
	}
}

// ToCandidateResponse преобразует модель в DTO
func ToCandidateResponse(c *domain.Candidate, showAudit bool) CandidateResponse {
	resp := CandidateResponse{
		ID:          c.ID,
		FullName:    c.FullName,
		Email:       c.Email,
		Phone:       c.Phone,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		AuditFields: audit(showAudit, c.CreatedBy, c.UpdatedBy),
	}
	for i := range c.Applications {
		resp.Applications = append(resp.Applications, ToApplicationResponse(&c.Applications[i], showAudit))
	}
	return resp
}

// ToApplicationResponse преобразует модель в DTO
func ToApplicationResponse(app *domain.Application, showAudit bool) ApplicationResponse {
	resp := ApplicationResponse{
		ID:            app.ID,
		CandidateID:   app.CandidateID,
		JobPositionID: app.JobPositionID,
		Status:        string(app.Status),
		CreatedAt:     app.CreatedAt,
		UpdatedAt:     app.UpdatedAt,
		AuditFields:   audit(showAudit, app.CreatedBy, app.UpdatedBy),
	}
	for i := range app.Interviews {
		resp.Interviews = append(resp.Interviews, ToInterviewResponse(&app.Interviews[i], showAudit))
	}
	return resp
}

// ToInterviewResponse преобразует модель в DTO
func ToInterviewResponse(iv *domain.InterviewSchedule, showAudit bool) InterviewResponse {
	resp := InterviewResponse{
		ID:            iv.ID,
		ApplicationID: iv.ApplicationID,
		RoundName:     iv.RoundName,
		ScheduledAt:   iv.ScheduledAt,
		InterviewerID: iv.InterviewerID,
		Status:        string(iv.Status),
		Feedback:      iv.Feedback,
		CreatedAt:     iv.CreatedAt,
		AuditFields:   audit(showAudit, iv.CreatedBy, iv.UpdatedBy),
	}
	if iv.Result != nil {
		result := string(*iv.Result)
		resp.Result = &result
	}
	return resp
}

// ToStatusLogResponse преобразует запись журнала в DTO.
// Автор изменения скрывается так же, как created_by/updated_by.
func ToStatusLogResponse(entry *domain.StatusChangeLog, showAudit bool) StatusLogResponse {
	resp := StatusLogResponse{
		ID:            entry.ID,
		EntityType:    string(entry.EntityType),
		EntityID:      entry.EntityID,
		OldStatus:     entry.OldStatus,
		NewStatus:     entry.NewStatus,
		Reason:        entry.Reason,
		IsAutomatic:   entry.IsAutomatic,
		CorrelationID: entry.CorrelationID,
		CreatedAt:     entry.CreatedAt,
	}
	if showAudit {
		changedBy := entry.ChangedBy
		resp.ChangedBy = &changedBy
	}
	return resp
}

// ToOrganizationResponse преобразует организацию в DTO
func ToOrganizationResponse(org *domain.Organization) OrganizationResponse {
	resp := OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		IsActive:  org.IsActive,
		CreatedAt: org.CreatedAt,
	}
	if org.SubscriptionPlan != nil {
		plan := org.SubscriptionPlan.Name
		resp.Plan = &plan
		for _, m := range org.SubscriptionPlan.Modules {
			resp.Modules = append(resp.Modules, string(m.ModuleCode))
		}
	}
	return resp
}
