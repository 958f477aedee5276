package mapper

import (
	"consultation-be/internal/entity"
	"consultation-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChannelToEntity(c *model.Channel) *entity.Channel {
	if c == nil {
		return nil
	}
	return &entity.Channel{
		Id:            c.Id,
		EngagementId:  c.EngagementId,
		RequesterId:   c.RequesterId,
		SpecialistId:  c.SpecialistId,
		IsActive:      c.IsActive,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     updatedAtPtr(c.UpdatedAt),
	}
}

func (m *ChatMapper) ChannelToModel(c *entity.Channel) *model.Channel {
	if c == nil {
		return nil
	}
	return &model.Channel{
		Id:            c.Id,
		EngagementId:  c.EngagementId,
		RequesterId:   c.RequesterId,
		SpecialistId:  c.SpecialistId,
		IsActive:      c.IsActive,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     updatedAtValue(c.UpdatedAt),
	}
}

func (m *ChatMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:          msg.Id,
		ChannelId:   msg.ChannelId,
		SenderId:    msg.SenderId,
		ReceiverId:  msg.ReceiverId,
		Body:        msg.Body,
		Status:      entity.MessageStatus(msg.Status),
		SentAt:      msg.SentAt,
		DeliveredAt: msg.DeliveredAt,
		ReadAt:      msg.ReadAt,
		IsEdited:    msg.IsEdited,
		IsForwarded: msg.IsForwarded,
		IsDeleted:   msg.IsDeleted,
		CreatedAt:   msg.CreatedAt,
		UpdatedAt:   updatedAtPtr(msg.UpdatedAt),
		DeletedAt:   msg.DeletedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:          msg.Id,
		ChannelId:   msg.ChannelId,
		SenderId:    msg.SenderId,
		ReceiverId:  msg.ReceiverId,
		Body:        msg.Body,
		Status:      string(msg.Status),
		SentAt:      msg.SentAt,
		DeliveredAt: msg.DeliveredAt,
		ReadAt:      msg.ReadAt,
		IsEdited:    msg.IsEdited,
		IsForwarded: msg.IsForwarded,
		IsDeleted:   msg.IsDeleted,
		DeletedAt:   msg.DeletedAt,
		CreatedAt:   msg.CreatedAt,
		UpdatedAt:   updatedAtValue(msg.UpdatedAt),
	}
}
